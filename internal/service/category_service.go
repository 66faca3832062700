package service

import (
	"context"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, createDTO *dto.CategoryCreateDTO) (*dto.CategoryDTO, error)
	UpdateCategory(ctx context.Context, name string, updateDTO *dto.CategoryUpdateDTO) error
	FindCategories(ctx context.Context, findDTO *dto.CategoryFindDTO) ([]*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, name string) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
	postMetaRepo repository.PostMetaRepo
	tx           mongoPkg.TxRunner
}

func NewCategoryService(categoryRepo repository.CategoryRepo, postMetaRepo repository.PostMetaRepo, tx mongoPkg.TxRunner) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
		postMetaRepo: postMetaRepo,
		tx:           tx,
	}
}

// CreateCategory 新建分类。父分类必须已存在，层级取父级 +1。
func (s *categoryServiceImpl) CreateCategory(ctx context.Context, createDTO *dto.CategoryCreateDTO) (*dto.CategoryDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}

	category := &model.Category{Name: createDTO.Name, Level: 0}

	err := runInTx(ctx, s.tx, func(ctx context.Context) error {
		if createDTO.ParentID != nil && *createDTO.ParentID != "" {
			parentID, err := parseObjectID(*createDTO.ParentID)
			if err != nil {
				return err
			}
			parent, err := s.categoryRepo.FindOneByID(ctx, parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return ErrCategoryNotFound(*createDTO.ParentID)
			}
			category.ParentCategory = &parent.ID
			category.Level = parent.Level + 1
		}

		id, err := s.categoryRepo.Create(ctx, category)
		if err != nil {
			return ErrCategoryNotCreated(category.Name)
		}
		category.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryDTO(category), nil
}

// UpdateCategory 修改分类名称或父级。改父级时重新计算层级。
func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, name string, updateDTO *dto.CategoryUpdateDTO) error {
	if updateDTO.NewName == nil && updateDTO.NewParentID == nil {
		return ErrParameterEmpty
	}

	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound(name)
		}

		set := bson.M{}
		if updateDTO.NewName != nil {
			if *updateDTO.NewName == "" {
				return ErrInvalidRequestParameter("newName 不能为空")
			}
			set["name"] = *updateDTO.NewName
		}
		if updateDTO.NewParentID != nil {
			if *updateDTO.NewParentID == "" {
				set["parent_category"] = nil
				set["level"] = 0
			} else {
				parentID, err := parseObjectID(*updateDTO.NewParentID)
				if err != nil {
					return err
				}
				if parentID == category.ID {
					return ErrInvalidRequestParameter("分类不能作为自身的父级")
				}
				parent, err := s.categoryRepo.FindOneByID(ctx, parentID)
				if err != nil {
					return err
				}
				if parent == nil {
					return ErrCategoryNotFound(*updateDTO.NewParentID)
				}
				set["parent_category"] = parent.ID
				set["level"] = parent.Level + 1
			}
		}

		if err := s.categoryRepo.UpdateByID(ctx, category.ID, set); err != nil {
			return ErrCategoryNotFound(name)
		}
		return nil
	})
}

// FindCategories 查询分类。父级条件在内存中过滤，其余条件下推到查询层。
func (s *categoryServiceImpl) FindCategories(ctx context.Context, findDTO *dto.CategoryFindDTO) ([]*dto.CategoryDTO, error) {
	q := repository.Query{}
	if findDTO.ID != "" {
		id, err := parseObjectID(findDTO.ID)
		if err != nil {
			return nil, err
		}
		q["_id"] = repository.Equals(id)
	}
	if findDTO.Name != "" {
		q["name"] = repository.Equals(findDTO.Name)
	}
	if findDTO.Level != nil {
		q["level"] = repository.Equals(*findDTO.Level)
	}

	var parentID primitive.ObjectID
	if findDTO.ParentID != "" {
		id, err := parseObjectID(findDTO.ParentID)
		if err != nil {
			return nil, err
		}
		parentID = id
	}

	categories, err := s.categoryRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		if findDTO.ParentID != "" && (c.ParentCategory == nil || *c.ParentCategory != parentID) {
			continue
		}
		result = append(result, toCategoryDTO(c))
	}
	return result, nil
}

// DeleteCategory 删除分类。存在子分类或仍被未删除文章引用时拒绝。
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, name string) error {
	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		category, err := s.categoryRepo.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound(name)
		}

		children, err := s.categoryRepo.FindChildren(ctx, category.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			names := make([]string, 0, len(children))
			for _, c := range children {
				names = append(names, c.Name)
			}
			return ErrCategoryWithChildren(names)
		}

		count, err := s.postMetaRepo.CountByCategory(ctx, category.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse(category.Name, count)
		}

		if err := s.categoryRepo.DeleteByID(ctx, category.ID); err != nil {
			return ErrCategoryNotFound(name)
		}
		return nil
	})
}

func toCategoryDTO(category *model.Category) *dto.CategoryDTO {
	d := &dto.CategoryDTO{
		ID:    category.ID.Hex(),
		Name:  category.Name,
		Level: category.Level,
	}
	if category.ParentCategory != nil {
		d.ParentID = category.ParentCategory.Hex()
	}
	return d
}

// parseObjectID 把十六进制字符串解析成 ObjectID，非法时返回参数错误。
func parseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidRequestParameter("非法的对象 ID: " + hex)
	}
	return id, nil
}
