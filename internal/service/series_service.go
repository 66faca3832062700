package service

import (
	"context"
	"fmt"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SeriesService interface {
	CreateSeries(ctx context.Context, createDTO *dto.SeriesCreateDTO) (*dto.SeriesDTO, error)
	UpdateSeries(ctx context.Context, name string, updateDTO *dto.SeriesUpdateDTO) error
	FindSeries(ctx context.Context, findDTO *dto.SeriesFindDTO) ([]*dto.SeriesDTO, error)
	DeleteSeries(ctx context.Context, name string) error
}

type seriesServiceImpl struct {
	seriesRepo   repository.SeriesRepo
	postMetaRepo repository.PostMetaRepo
	imageRepo    repository.ImageRepo
	tx           mongoPkg.TxRunner
}

func NewSeriesService(seriesRepo repository.SeriesRepo, postMetaRepo repository.PostMetaRepo, imageRepo repository.ImageRepo, tx mongoPkg.TxRunner) SeriesService {
	return &seriesServiceImpl{
		seriesRepo:   seriesRepo,
		postMetaRepo: postMetaRepo,
		imageRepo:    imageRepo,
		tx:           tx,
	}
}

// CreateSeries 新建系列。初始文章列表按传入顺序收录，
// 已属于其他系列的文章会让整个请求回滚。
func (s *seriesServiceImpl) CreateSeries(ctx context.Context, createDTO *dto.SeriesCreateDTO) (*dto.SeriesDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}
	metaIDs, err := parseObjectIDs(createDTO.PostMetaIDs)
	if err != nil {
		return nil, err
	}

	series := &model.Series{
		Name:             createDTO.Name,
		ThumbnailContent: createDTO.ThumbnailContent,
	}

	err = runInTx(ctx, s.tx, func(ctx context.Context) error {
		if createDTO.ThumbnailImageTitle != nil && *createDTO.ThumbnailImageTitle != "" {
			imageID, err := s.resolveImage(ctx, *createDTO.ThumbnailImageTitle)
			if err != nil {
				return err
			}
			series.ThumbnailImage = imageID
		}

		id, err := s.seriesRepo.Create(ctx, series)
		if err != nil {
			return ErrSeriesNotCreated(createDTO.Name)
		}
		series.ID = id

		if len(metaIDs) > 0 {
			if err := s.claimPostMetas(ctx, series, metaIDs); err != nil {
				return err
			}
			series.PostMetaList = metaIDs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSeriesDTO(series), nil
}

// UpdateSeries 修改系列名称、缩略信息或收录文章。
func (s *seriesServiceImpl) UpdateSeries(ctx context.Context, name string, updateDTO *dto.SeriesUpdateDTO) error {
	if updateDTO.NewName == nil && updateDTO.ThumbnailContent == nil && updateDTO.ThumbnailImageTitle == nil &&
		len(updateDTO.PostMetaIDsToAdd) == 0 && len(updateDTO.PostMetaIDsToRemove) == 0 {
		return ErrParameterEmpty
	}
	toAdd, err := parseObjectIDs(updateDTO.PostMetaIDsToAdd)
	if err != nil {
		return err
	}
	toRemove, err := parseObjectIDs(updateDTO.PostMetaIDsToRemove)
	if err != nil {
		return err
	}

	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		series, err := s.seriesRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if series == nil {
			return ErrSeriesNotFound(name)
		}
		seriesID := series.ID

		set := bson.M{}
		if updateDTO.NewName != nil {
			if *updateDTO.NewName == "" {
				return ErrInvalidRequestParameter("newName 不能为空")
			}
			set["name"] = *updateDTO.NewName
		}
		if updateDTO.ThumbnailContent != nil {
			set["thumbnail_content"] = *updateDTO.ThumbnailContent
		}
		if updateDTO.ThumbnailImageTitle != nil {
			if *updateDTO.ThumbnailImageTitle == "" {
				set["thumbnail_image"] = nil
			} else {
				imageID, err := s.resolveImage(ctx, *updateDTO.ThumbnailImageTitle)
				if err != nil {
					return err
				}
				set["thumbnail_image"] = imageID
			}
		}
		if len(set) > 0 {
			if err := s.seriesRepo.UpdateByID(ctx, seriesID, set); err != nil {
				return ErrSeriesNotFound(name)
			}
		}

		if len(toAdd) > 0 {
			if err := s.claimPostMetas(ctx, series, toAdd); err != nil {
				return err
			}
		}
		if len(toRemove) > 0 {
			for _, metaID := range toRemove {
				meta, err := s.postMetaRepo.FindOneByID(ctx, metaID)
				if err != nil {
					return err
				}
				// 只允许移除本系列的成员，防止清掉其他系列的归属
				if meta == nil || meta.Series == nil || *meta.Series != seriesID {
					return ErrInvalidRequestParameter(fmt.Sprintf("文章 %s 不在系列(%s)中", metaID.Hex(), name))
				}
				if err := s.postMetaRepo.ClearSeries(ctx, metaID); err != nil {
					return err
				}
			}
			if err := s.seriesRepo.RemovePostMetas(ctx, seriesID, toRemove); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *seriesServiceImpl) FindSeries(ctx context.Context, findDTO *dto.SeriesFindDTO) ([]*dto.SeriesDTO, error) {
	q := repository.Query{}
	if findDTO.Name != "" {
		if findDTO.IsContains {
			q["name"] = repository.Contains(findDTO.Name)
		} else {
			q["name"] = repository.Equals(findDTO.Name)
		}
	}

	seriesList, err := s.seriesRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.SeriesDTO, 0, len(seriesList))
	for _, item := range seriesList {
		result = append(result, toSeriesDTO(item))
	}
	return result, nil
}

// DeleteSeries 删除系列，并清除所有文章侧的归属。
func (s *seriesServiceImpl) DeleteSeries(ctx context.Context, name string) error {
	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		series, err := s.seriesRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if series == nil {
			return ErrSeriesNotFound(name)
		}

		for _, metaID := range series.PostMetaList {
			if err := s.postMetaRepo.ClearSeries(ctx, metaID); err != nil {
				return err
			}
		}
		if err := s.seriesRepo.DeleteByID(ctx, series.ID); err != nil {
			return ErrSeriesNotFound(name)
		}
		return nil
	})
}

// claimPostMetas 把文章批量归入系列。文章已在其他系列时整体失败，
// 已在本系列的文章跳过，避免重复收录。
func (s *seriesServiceImpl) claimPostMetas(ctx context.Context, series *model.Series, metaIDs []primitive.ObjectID) error {
	newMembers := make([]primitive.ObjectID, 0, len(metaIDs))
	for _, metaID := range metaIDs {
		meta, err := s.postMetaRepo.FindOneByID(ctx, metaID)
		if err != nil {
			return err
		}
		if meta == nil || meta.IsDeleted {
			return ErrPostNotFound(metaID.Hex())
		}
		if meta.Series != nil {
			if *meta.Series == series.ID {
				continue
			}
			ownerName := meta.Series.Hex()
			if owner, err := s.seriesRepo.FindOneByID(ctx, *meta.Series); err == nil && owner != nil {
				ownerName = owner.Name
			}
			return ErrAlreadyBelongToAnotherSeries(meta.PostNo, ownerName)
		}
		if err := s.postMetaRepo.SetSeries(ctx, metaID, series.ID); err != nil {
			return err
		}
		newMembers = append(newMembers, metaID)
	}
	if len(newMembers) == 0 {
		return nil
	}
	return s.seriesRepo.AppendPostMetas(ctx, series.ID, newMembers)
}

func (s *seriesServiceImpl) resolveImage(ctx context.Context, title string) (*primitive.ObjectID, error) {
	image, err := s.imageRepo.FindOneByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound(title)
	}
	if err := promotePendingImage(ctx, title); err != nil {
		return nil, err
	}
	return &image.ID, nil
}

func toSeriesDTO(series *model.Series) *dto.SeriesDTO {
	d := &dto.SeriesDTO{
		ID:               series.ID.Hex(),
		Name:             series.Name,
		ThumbnailContent: series.ThumbnailContent,
		PostMetaList:     make([]string, 0, len(series.PostMetaList)),
	}
	if series.ThumbnailImage != nil {
		d.ThumbnailImage = series.ThumbnailImage.Hex()
	}
	for _, id := range series.PostMetaList {
		d.PostMetaList = append(d.PostMetaList, id.Hex())
	}
	return d
}
