package service

import (
	"context"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagService interface {
	CreateTag(ctx context.Context, createDTO *dto.TagCreateDTO) (*dto.TagDTO, error)
	UpdateTag(ctx context.Context, name string, updateDTO *dto.TagUpdateDTO) error
	FindTags(ctx context.Context, findDTO *dto.TagFindDTO) ([]*dto.TagDTO, error)
	DeleteTag(ctx context.Context, name string) error
}

type tagServiceImpl struct {
	tagRepo      repository.TagRepo
	postMetaRepo repository.PostMetaRepo
	tx           mongoPkg.TxRunner
}

func NewTagService(tagRepo repository.TagRepo, postMetaRepo repository.PostMetaRepo, tx mongoPkg.TxRunner) TagService {
	return &tagServiceImpl{
		tagRepo:      tagRepo,
		postMetaRepo: postMetaRepo,
		tx:           tx,
	}
}

func (s *tagServiceImpl) CreateTag(ctx context.Context, createDTO *dto.TagCreateDTO) (*dto.TagDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: createDTO.Name}
	id, err := s.tagRepo.Create(ctx, tag)
	if err != nil {
		return nil, ErrTagNotCreated(createDTO.Name)
	}
	tag.ID = id
	return toTagDTO(tag), nil
}

// UpdateTag 重命名标签或增删关联文章。
// 标签与文章的引用互为镜像，增删统一走同一事务的双写。
func (s *tagServiceImpl) UpdateTag(ctx context.Context, name string, updateDTO *dto.TagUpdateDTO) error {
	if updateDTO.NewName == nil && len(updateDTO.PostMetaIDsToAdd) == 0 && len(updateDTO.PostMetaIDsToRemove) == 0 {
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
		tag, err := s.tagRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if tag == nil {
			return ErrTagNotFound(name)
		}
		tagID := tag.ID

		if updateDTO.NewName != nil {
			if *updateDTO.NewName == "" {
				return ErrInvalidRequestParameter("newName 不能为空")
			}
			if err := s.tagRepo.Rename(ctx, tagID, *updateDTO.NewName); err != nil {
				return ErrTagNotFound(name)
			}
		}

		if len(toAdd) > 0 {
			for _, metaID := range toAdd {
				meta, err := s.postMetaRepo.FindOneByID(ctx, metaID)
				if err != nil {
					return err
				}
				if meta == nil || meta.IsDeleted {
					return ErrPostNotFound(metaID.Hex())
				}
				if err := s.postMetaRepo.AddTag(ctx, metaID, tagID); err != nil {
					return err
				}
			}
			if err := s.tagRepo.AddPostMetas(ctx, tagID, toAdd); err != nil {
				return err
			}
		}

		if len(toRemove) > 0 {
			for _, metaID := range toRemove {
				if err := s.postMetaRepo.RemoveTag(ctx, metaID, tagID); err != nil {
					return err
				}
			}
			if err := s.tagRepo.RemovePostMetas(ctx, tagID, toRemove); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *tagServiceImpl) FindTags(ctx context.Context, findDTO *dto.TagFindDTO) ([]*dto.TagDTO, error) {
	q := repository.Query{}
	if findDTO.Name != "" {
		if findDTO.IsContains {
			q["name"] = repository.Contains(findDTO.Name)
		} else {
			q["name"] = repository.Equals(findDTO.Name)
		}
	}

	tags, err := s.tagRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TagDTO, 0, len(tags))
	for _, t := range tags {
		result = append(result, toTagDTO(t))
	}
	return result, nil
}

// DeleteTag 删除标签，并摘除所有文章侧的反向引用。
func (s *tagServiceImpl) DeleteTag(ctx context.Context, name string) error {
	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		tag, err := s.tagRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if tag == nil {
			return ErrTagNotFound(name)
		}

		for _, metaID := range tag.PostMetaList {
			if err := s.postMetaRepo.RemoveTag(ctx, metaID, tag.ID); err != nil {
				return err
			}
		}
		if err := s.tagRepo.DeleteByID(ctx, tag.ID); err != nil {
			return ErrTagNotFound(name)
		}
		return nil
	})
}

func toTagDTO(tag *model.Tag) *dto.TagDTO {
	d := &dto.TagDTO{
		ID:           tag.ID.Hex(),
		Name:         tag.Name,
		PostMetaList: make([]string, 0, len(tag.PostMetaList)),
	}
	for _, id := range tag.PostMetaList {
		d.PostMetaList = append(d.PostMetaList, id.Hex())
	}
	return d
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := parseObjectID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
