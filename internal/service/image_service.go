package service

import (
	"context"
	"io"
	"strings"
	"time"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"

	"github.com/goccy/go-json"
)

type ImageService interface {
	UploadImage(ctx context.Context, title string, file io.ReadSeeker, size int64) (*dto.ImageDTO, error)
	GetImage(ctx context.Context, title string) (*dto.ImageDTO, error)
	FindImages(ctx context.Context, title string, isContains bool) ([]*dto.ImageDTO, error)
	DeleteImage(ctx context.Context, title string) error
}

type imageServiceImpl struct {
	imageRepo repository.ImageRepo
}

func NewImageService(imageRepo repository.ImageRepo) ImageService {
	return &imageServiceImpl{imageRepo: imageRepo}
}

// UploadImage 上传图片。对象先进暂存桶并登记待定元数据，
// 被文章或系列引用时才迁入主桶；超时未引用的由清理任务回收。
func (s *imageServiceImpl) UploadImage(ctx context.Context, title string, file io.ReadSeeker, size int64) (*dto.ImageDTO, error) {
	if title == "" {
		return nil, ErrInvalidRequestParameter("文件名不能为空")
	}

	existing, err := s.imageRepo.FindOneByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicatedFileName(title)
	}

	contentType, err := util.GetSafeContentType(file)
	if err != nil {
		return nil, ErrFileNotUploaded
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, ErrInvalidRequestParameter("仅支持图片类型的文件")
	}

	width, height, err := util.GetImageDimensions(file)
	if err != nil {
		return nil, ErrInvalidRequestParameter("无法解析的图片内容")
	}

	if _, err := minio.UploadFile(ctx, minio.TempBucket, title, file, size, contentType); err != nil {
		return nil, ErrFileNotUploaded
	}

	pending := dto.ImagePendingMetadata{
		MimeType:  contentType,
		Size:      size,
		CreatedAt: time.Now().Unix(),
	}
	if payload, err := json.Marshal(pending); err == nil {
		_ = redis.HSet(ctx, consts.ImagePendingKey, title, payload)
	}

	image := &model.Image{
		Title:       title,
		CreatedDate: time.Now(),
		Size:        size,
		Width:       width,
		Height:      height,
	}
	id, err := s.imageRepo.Create(ctx, image)
	if err != nil {
		_ = minio.DeleteFile(ctx, minio.TempBucket, title)
		_ = redis.HDel(ctx, consts.ImagePendingKey, title)
		return nil, ErrDuplicatedFileName(title)
	}
	image.ID = id
	return toImageDTO(image), nil
}

func (s *imageServiceImpl) GetImage(ctx context.Context, title string) (*dto.ImageDTO, error) {
	image, err := s.imageRepo.FindOneByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound(title)
	}
	return toImageDTO(image), nil
}

func (s *imageServiceImpl) FindImages(ctx context.Context, title string, isContains bool) ([]*dto.ImageDTO, error) {
	q := repository.Query{}
	if title != "" {
		if isContains {
			q["title"] = repository.Contains(title)
		} else {
			q["title"] = repository.Equals(title)
		}
	}

	images, err := s.imageRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.ImageDTO, 0, len(images))
	for _, image := range images {
		result = append(result, toImageDTO(image))
	}
	return result, nil
}

// DeleteImage 删除图片记录并回收两个桶里的对象。
func (s *imageServiceImpl) DeleteImage(ctx context.Context, title string) error {
	image, err := s.imageRepo.FindOneByTitle(ctx, title)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound(title)
	}

	if err := s.imageRepo.DeleteByTitle(ctx, title); err != nil {
		return ErrImageNotFound(title)
	}
	_ = minio.DeleteFile(ctx, minio.MainBucket, title)
	_ = minio.DeleteFile(ctx, minio.TempBucket, title)
	_ = redis.HDel(ctx, consts.ImagePendingKey, title)
	return nil
}

// promotePendingImage 把仍在暂存桶的图片迁入主桶。已迁移过的直接略过。
func promotePendingImage(ctx context.Context, title string) error {
	pending, err := redis.HGetAll(ctx, consts.ImagePendingKey)
	if err != nil {
		return nil
	}
	if _, ok := pending[title]; !ok {
		return nil
	}
	if err := minio.MoveToMainBucket(ctx, title); err != nil {
		return ErrFileCannotBeMoved(title)
	}
	_ = redis.HDel(ctx, consts.ImagePendingKey, title)
	return nil
}

func toImageDTO(image *model.Image) *dto.ImageDTO {
	return &dto.ImageDTO{
		ID:          image.ID.Hex(),
		Title:       image.Title,
		URL:         minio.GetPublicURL(image.Title),
		Size:        image.Size,
		Width:       image.Width,
		Height:      image.Height,
		CreatedDate: image.CreatedDate.Format(time.RFC3339),
	}
}
