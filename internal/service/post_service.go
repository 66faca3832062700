package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/markdown"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreviewCacheTTL 预览渲染结果的缓存时长
const PreviewCacheTTL = 10 * time.Minute

type PostService interface {
	CreatePost(ctx context.Context, createDTO *dto.PostCreateDTO) (*dto.PostDTO, error)
	CreatePostVersion(ctx context.Context, postNo int64, createDTO *dto.PostVersionCreateDTO) (*dto.PostVersionDTO, error)
	UpdatePostMeta(ctx context.Context, postNo int64, updateDTO *dto.PostMetaUpdateDTO) error
	FindPosts(ctx context.Context, findDTO *dto.PostFindDTO) ([]*dto.PostDTO, error)
	GetPost(ctx context.Context, postNo int64, language string) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, postNo int64) error
	DeletePostVersion(ctx context.Context, id string) error
	PreviewPost(ctx context.Context, previewDTO *dto.PostPreviewDTO) (*dto.PostPreviewResultDTO, error)
}

type postServiceImpl struct {
	postMetaRepo    repository.PostMetaRepo
	postVersionRepo repository.PostVersionRepo
	categoryRepo    repository.CategoryRepo
	tagRepo         repository.TagRepo
	seriesRepo      repository.SeriesRepo
	imageRepo       repository.ImageRepo
	tx              mongoPkg.TxRunner
}

func NewPostService(
	postMetaRepo repository.PostMetaRepo,
	postVersionRepo repository.PostVersionRepo,
	categoryRepo repository.CategoryRepo,
	tagRepo repository.TagRepo,
	seriesRepo repository.SeriesRepo,
	imageRepo repository.ImageRepo,
	tx mongoPkg.TxRunner,
) PostService {
	return &postServiceImpl{
		postMetaRepo:    postMetaRepo,
		postVersionRepo: postVersionRepo,
		categoryRepo:    categoryRepo,
		tagRepo:         tagRepo,
		seriesRepo:      seriesRepo,
		imageRepo:       imageRepo,
		tx:              tx,
	}
}

// CreatePost 新建文章：分配序号、解析分类/标签/系列名称、渲染内容，
// 元数据与首个内容版本在同一事务中落库。
func (s *postServiceImpl) CreatePost(ctx context.Context, createDTO *dto.PostCreateDTO) (*dto.PostDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}

	rendered, err := markdown.Render(createDTO.RawContent)
	if err != nil {
		return nil, ErrPostNotCreated(createDTO.Title)
	}

	language := createDTO.Language
	if language == "" {
		language = consts.DefaultLanguage
	}

	var result *dto.PostDTO
	err = runInTx(ctx, s.tx, func(ctx context.Context) error {
		postNo, err := s.postMetaRepo.NextPostNo(ctx)
		if err != nil {
			return err
		}

		meta := &model.PostMeta{
			PostNo:      postNo,
			TagList:     []primitive.ObjectID{},
			CreatedDate: time.Now(),
			IsPrivate:   createDTO.IsPrivate,
			IsDraft:     createDTO.IsDraft,
		}

		var categoryName, seriesName string
		if createDTO.CategoryName != nil && *createDTO.CategoryName != "" {
			category, err := s.categoryRepo.FindOneByName(ctx, *createDTO.CategoryName)
			if err != nil {
				return err
			}
			if category == nil {
				return ErrCategoryNotFound(*createDTO.CategoryName)
			}
			meta.Category = &category.ID
			categoryName = category.Name
		}

		metaID, err := s.postMetaRepo.Create(ctx, meta)
		if err != nil {
			return ErrPostNotCreated(createDTO.Title)
		}
		meta.ID = metaID

		tagNames := make([]string, 0, len(createDTO.TagNames))
		for _, tagName := range createDTO.TagNames {
			tag, err := s.tagRepo.FindOneByName(ctx, tagName)
			if err != nil {
				return err
			}
			if tag == nil {
				return ErrTagNotFound(tagName)
			}
			if err := s.postMetaRepo.AddTag(ctx, metaID, tag.ID); err != nil {
				return err
			}
			if err := s.tagRepo.AddPostMetas(ctx, tag.ID, []primitive.ObjectID{metaID}); err != nil {
				return err
			}
			meta.TagList = append(meta.TagList, tag.ID)
			tagNames = append(tagNames, tag.Name)
		}

		if createDTO.SeriesName != nil && *createDTO.SeriesName != "" {
			series, err := s.seriesRepo.FindOneByName(ctx, *createDTO.SeriesName)
			if err != nil {
				return err
			}
			if series == nil {
				return ErrSeriesNotFound(*createDTO.SeriesName)
			}
			if err := s.postMetaRepo.SetSeries(ctx, metaID, series.ID); err != nil {
				return err
			}
			if err := s.seriesRepo.AppendPostMetas(ctx, series.ID, []primitive.ObjectID{metaID}); err != nil {
				return err
			}
			meta.Series = &series.ID
			seriesName = series.Name
		}

		version := &model.PostVersion{
			PostNo:           postNo,
			Title:            createDTO.Title,
			RawContent:       createDTO.RawContent,
			RenderedContent:  rendered.HTML,
			TOC:              rendered.TOC,
			Language:         language,
			ThumbnailContent: createDTO.ThumbnailContent,
			UpdatedDate:      time.Now(),
			IsLatestVersion:  true,
		}
		if createDTO.ThumbnailImageTitle != nil && *createDTO.ThumbnailImageTitle != "" {
			imageID, err := s.resolveImage(ctx, *createDTO.ThumbnailImageTitle)
			if err != nil {
				return err
			}
			version.ThumbnailImage = imageID
		}

		versionID, err := s.postVersionRepo.Create(ctx, version)
		if err != nil {
			return ErrPostNotCreated(createDTO.Title)
		}
		version.ID = versionID

		result = toPostDTO(meta, categoryName, seriesName, tagNames, version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreatePostVersion 为既有文章追加内容版本：新版本先落库并置为最新，
// 旧的最新版随后在同一事务中翻转并被 last_post_version 指向。
func (s *postServiceImpl) CreatePostVersion(ctx context.Context, postNo int64, createDTO *dto.PostVersionCreateDTO) (*dto.PostVersionDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}

	rendered, err := markdown.Render(createDTO.RawContent)
	if err != nil {
		return nil, ErrPostNotCreated(createDTO.Title)
	}

	language := createDTO.Language
	if language == "" {
		language = consts.DefaultLanguage
	}

	var result *dto.PostVersionDTO
	err = runInTx(ctx, s.tx, func(ctx context.Context) error {
		meta, err := s.postMetaRepo.FindOneByPostNo(ctx, postNo)
		if err != nil {
			return err
		}
		if meta == nil || meta.IsDeleted {
			return ErrPostNotFound(postNo)
		}

		latest, err := s.postVersionRepo.FindLatest(ctx, postNo, language)
		if err != nil {
			return err
		}

		version := &model.PostVersion{
			PostNo:           postNo,
			Title:            createDTO.Title,
			RawContent:       createDTO.RawContent,
			RenderedContent:  rendered.HTML,
			TOC:              rendered.TOC,
			Language:         language,
			ThumbnailContent: createDTO.ThumbnailContent,
			UpdatedDate:      time.Now(),
			IsLatestVersion:  true,
		}
		if latest != nil {
			version.LastPostVersion = &latest.ID
		}
		if createDTO.ThumbnailImageTitle != nil && *createDTO.ThumbnailImageTitle != "" {
			imageID, err := s.resolveImage(ctx, *createDTO.ThumbnailImageTitle)
			if err != nil {
				return err
			}
			version.ThumbnailImage = imageID
		}

		versionID, err := s.postVersionRepo.Create(ctx, version)
		if err != nil {
			return ErrPostNotCreated(createDTO.Title)
		}
		version.ID = versionID

		if latest != nil {
			if err := s.postVersionRepo.MarkSuperseded(ctx, latest.ID); err != nil {
				return err
			}
		}

		result = toPostVersionDTO(version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePostMeta 修改文章元数据。分类/系列传空串表示清除关联，
// 标签传完整名单，差集在同一事务中双向增删。
func (s *postServiceImpl) UpdatePostMeta(ctx context.Context, postNo int64, updateDTO *dto.PostMetaUpdateDTO) error {
	if updateDTO.CategoryName == nil && updateDTO.SeriesName == nil && updateDTO.TagNames == nil &&
		updateDTO.IsPrivate == nil && updateDTO.IsDeprecated == nil && updateDTO.IsDraft == nil {
		return ErrParameterEmpty
	}

	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		meta, err := s.postMetaRepo.FindOneByPostNo(ctx, postNo)
		if err != nil {
			return err
		}
		if meta == nil || meta.IsDeleted {
			return ErrPostNotFound(postNo)
		}

		set := bson.M{}
		if updateDTO.CategoryName != nil {
			if *updateDTO.CategoryName == "" {
				set["category"] = nil
			} else {
				category, err := s.categoryRepo.FindOneByName(ctx, *updateDTO.CategoryName)
				if err != nil {
					return err
				}
				if category == nil {
					return ErrCategoryNotFound(*updateDTO.CategoryName)
				}
				set["category"] = category.ID
			}
		}
		if updateDTO.IsPrivate != nil {
			set["is_private"] = *updateDTO.IsPrivate
		}
		if updateDTO.IsDeprecated != nil {
			set["is_deprecated"] = *updateDTO.IsDeprecated
		}
		if updateDTO.IsDraft != nil {
			set["is_draft"] = *updateDTO.IsDraft
		}
		if len(set) > 0 {
			if err := s.postMetaRepo.UpdateByID(ctx, meta.ID, set); err != nil {
				return ErrPostNotFound(postNo)
			}
		}

		if updateDTO.SeriesName != nil {
			if err := s.reassignSeries(ctx, meta, *updateDTO.SeriesName); err != nil {
				return err
			}
		}

		if updateDTO.TagNames != nil {
			if err := s.reconcileTags(ctx, meta, *updateDTO.TagNames); err != nil {
				return err
			}
		}
		return nil
	})
}

// reassignSeries 把文章移入指定系列（空名表示移出当前系列）。
func (s *postServiceImpl) reassignSeries(ctx context.Context, meta *model.PostMeta, seriesName string) error {
	if seriesName == "" {
		if meta.Series == nil {
			return nil
		}
		if err := s.seriesRepo.RemovePostMetas(ctx, *meta.Series, []primitive.ObjectID{meta.ID}); err != nil {
			return err
		}
		return s.postMetaRepo.ClearSeries(ctx, meta.ID)
	}

	series, err := s.seriesRepo.FindOneByName(ctx, seriesName)
	if err != nil {
		return err
	}
	if series == nil {
		return ErrSeriesNotFound(seriesName)
	}
	if meta.Series != nil {
		if *meta.Series == series.ID {
			return nil
		}
		if err := s.seriesRepo.RemovePostMetas(ctx, *meta.Series, []primitive.ObjectID{meta.ID}); err != nil {
			return err
		}
	}
	if err := s.postMetaRepo.SetSeries(ctx, meta.ID, series.ID); err != nil {
		return err
	}
	return s.seriesRepo.AppendPostMetas(ctx, series.ID, []primitive.ObjectID{meta.ID})
}

// reconcileTags 以传入名单为准，双向补齐/摘除标签引用。
func (s *postServiceImpl) reconcileTags(ctx context.Context, meta *model.PostMeta, tagNames []string) error {
	desired := make(map[primitive.ObjectID]bool, len(tagNames))
	for _, tagName := range tagNames {
		tag, err := s.tagRepo.FindOneByName(ctx, tagName)
		if err != nil {
			return err
		}
		if tag == nil {
			return ErrTagNotFound(tagName)
		}
		desired[tag.ID] = true
	}

	current := make(map[primitive.ObjectID]bool, len(meta.TagList))
	for _, tagID := range meta.TagList {
		current[tagID] = true
	}

	for tagID := range desired {
		if current[tagID] {
			continue
		}
		if err := s.postMetaRepo.AddTag(ctx, meta.ID, tagID); err != nil {
			return err
		}
		if err := s.tagRepo.AddPostMetas(ctx, tagID, []primitive.ObjectID{meta.ID}); err != nil {
			return err
		}
	}
	for tagID := range current {
		if desired[tagID] {
			continue
		}
		if err := s.postMetaRepo.RemoveTag(ctx, meta.ID, tagID); err != nil {
			return err
		}
		if err := s.tagRepo.RemovePostMetas(ctx, tagID, []primitive.ObjectID{meta.ID}); err != nil {
			return err
		}
	}
	return nil
}

// FindPosts 按版本字段过滤查询文章，所有条件按 AND 组合。
func (s *postServiceImpl) FindPosts(ctx context.Context, findDTO *dto.PostFindDTO) ([]*dto.PostDTO, error) {
	q := repository.Query{}
	if findDTO.PostNo != nil {
		q["post_no"] = repository.Equals(*findDTO.PostNo)
	}
	if findDTO.VersionID != "" {
		id, err := parseObjectID(findDTO.VersionID)
		if err != nil {
			return nil, err
		}
		q["_id"] = repository.Equals(id)
	}
	textCond := func(v string) repository.Cond {
		if findDTO.IsContains {
			return repository.Contains(v)
		}
		return repository.Equals(v)
	}
	if findDTO.Title != "" {
		q["title"] = textCond(findDTO.Title)
	}
	if findDTO.RawContent != "" {
		q["raw_content"] = textCond(findDTO.RawContent)
	}
	if findDTO.RenderedContent != "" {
		q["rendered_content"] = textCond(findDTO.RenderedContent)
	}
	if findDTO.Language != "" {
		q["language"] = repository.Equals(findDTO.Language)
	}
	if findDTO.IsLatestVersion != nil {
		q["is_latest_version"] = repository.Equals(*findDTO.IsLatestVersion)
	}
	if findDTO.From != "" || findDTO.To != "" {
		var from, to any
		if findDTO.From != "" {
			t, err := time.Parse(time.RFC3339, findDTO.From)
			if err != nil {
				return nil, ErrInvalidRequestParameter("from 不是合法的 RFC3339 时间")
			}
			from = t
		}
		if findDTO.To != "" {
			t, err := time.Parse(time.RFC3339, findDTO.To)
			if err != nil {
				return nil, ErrInvalidRequestParameter("to 不是合法的 RFC3339 时间")
			}
			to = t
		}
		q["updated_date"] = repository.Range(from, to)
	}

	versions, err := s.postVersionRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PostDTO, 0, len(versions))
	metaCache := make(map[int64]*model.PostMeta)
	for _, version := range versions {
		meta, ok := metaCache[version.PostNo]
		if !ok {
			meta, err = s.postMetaRepo.FindOneByPostNo(ctx, version.PostNo)
			if err != nil {
				return nil, err
			}
			metaCache[version.PostNo] = meta
		}
		if meta == nil || meta.IsDeleted {
			continue
		}
		d, err := s.assemblePostDTO(ctx, meta, version)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// GetPost 取指定语言的最新版本。语言为空时用默认语言。
func (s *postServiceImpl) GetPost(ctx context.Context, postNo int64, language string) (*dto.PostDTO, error) {
	if language == "" {
		language = consts.DefaultLanguage
	}

	meta, err := s.postMetaRepo.FindOneByPostNo(ctx, postNo)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.IsDeleted {
		return nil, ErrPostNotFound(postNo)
	}

	version, err := s.postVersionRepo.FindLatest(ctx, postNo, language)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, ErrPostNotFound(postNo)
	}
	return s.assemblePostDTO(ctx, meta, version)
}

// DeletePost 逻辑删除文章，并在同一事务中摘除标签与系列两侧的引用。
func (s *postServiceImpl) DeletePost(ctx context.Context, postNo int64) error {
	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		meta, err := s.postMetaRepo.FindOneByPostNo(ctx, postNo)
		if err != nil {
			return err
		}
		if meta == nil || meta.IsDeleted {
			return ErrPostNotFound(postNo)
		}

		for _, tagID := range meta.TagList {
			if err := s.tagRepo.RemovePostMetas(ctx, tagID, []primitive.ObjectID{meta.ID}); err != nil {
				return err
			}
		}
		if meta.Series != nil {
			if err := s.seriesRepo.RemovePostMetas(ctx, *meta.Series, []primitive.ObjectID{meta.ID}); err != nil {
				return err
			}
			if err := s.postMetaRepo.ClearSeries(ctx, meta.ID); err != nil {
				return err
			}
		}
		set := bson.M{
			"is_deleted": true,
			"tag_list":   []primitive.ObjectID{},
		}
		if err := s.postMetaRepo.UpdateByID(ctx, meta.ID, set); err != nil {
			return ErrPostNotFound(postNo)
		}
		return nil
	})
}

// DeletePostVersion 物理删除一个内容版本，存在即删，不做最新版守卫。
func (s *postServiceImpl) DeletePostVersion(ctx context.Context, id string) error {
	versionID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		version, err := s.postVersionRepo.FindOneByID(ctx, versionID)
		if err != nil {
			return err
		}
		if version == nil {
			return ErrPostNotFound(id)
		}
		if err := s.postVersionRepo.DeleteByID(ctx, versionID); err != nil {
			return ErrPostNotFound(id)
		}
		return nil
	})
}

// PreviewPost 渲染未保存的内容。按内容哈希做短时缓存，缓存故障时只降级不报错。
func (s *postServiceImpl) PreviewPost(ctx context.Context, previewDTO *dto.PostPreviewDTO) (*dto.PostPreviewResultDTO, error) {
	if err := validateDTO(previewDTO); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(previewDTO.RawContent))
	key := consts.PostPreviewKey + hex.EncodeToString(sum[:])

	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		var result dto.PostPreviewResultDTO
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	rendered, err := markdown.Render(previewDTO.RawContent)
	if err != nil {
		return nil, ErrUnexpected(err)
	}
	result := &dto.PostPreviewResultDTO{
		RenderedContent: rendered.HTML,
		TOC:             rendered.TOC,
	}

	if payload, err := json.Marshal(result); err == nil {
		_ = redis.SetWithExpiration(ctx, key, payload, PreviewCacheTTL)
	}
	return result, nil
}

func (s *postServiceImpl) resolveImage(ctx context.Context, title string) (*primitive.ObjectID, error) {
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

// assemblePostDTO 把元数据里的引用解析成名称后组装响应。
func (s *postServiceImpl) assemblePostDTO(ctx context.Context, meta *model.PostMeta, version *model.PostVersion) (*dto.PostDTO, error) {
	var categoryName, seriesName string
	if meta.Category != nil {
		category, err := s.categoryRepo.FindOneByID(ctx, *meta.Category)
		if err != nil {
			return nil, err
		}
		if category != nil {
			categoryName = category.Name
		}
	}
	if meta.Series != nil {
		series, err := s.seriesRepo.FindOneByID(ctx, *meta.Series)
		if err != nil {
			return nil, err
		}
		if series != nil {
			seriesName = series.Name
		}
	}
	tagNames := make([]string, 0, len(meta.TagList))
	if len(meta.TagList) > 0 {
		tags, err := s.tagRepo.FindByIDs(ctx, meta.TagList)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			tagNames = append(tagNames, tag.Name)
		}
	}
	return toPostDTO(meta, categoryName, seriesName, tagNames, version), nil
}

func toPostDTO(meta *model.PostMeta, categoryName, seriesName string, tagNames []string, version *model.PostVersion) *dto.PostDTO {
	d := &dto.PostDTO{
		PostNo:       meta.PostNo,
		CategoryName: categoryName,
		SeriesName:   seriesName,
		TagNames:     tagNames,
		CreatedDate:  meta.CreatedDate.Format(time.RFC3339),
		IsPrivate:    meta.IsPrivate,
		IsDeprecated: meta.IsDeprecated,
		IsDraft:      meta.IsDraft,
		CommentCount: meta.CommentCount,
	}
	if version != nil {
		d.Version = toPostVersionDTO(version)
	}
	return d
}

func toPostVersionDTO(version *model.PostVersion) *dto.PostVersionDTO {
	d := &dto.PostVersionDTO{}
	_ = copier.Copy(d, version)
	d.ID = version.ID.Hex()
	d.UpdatedDate = version.UpdatedDate.Format(time.RFC3339)
	if version.ThumbnailImage != nil {
		d.ThumbnailImage = version.ThumbnailImage.Hex()
	}
	if version.LastPostVersion != nil {
		d.LastPostVersion = version.LastPostVersion.Hex()
	}
	return d
}
