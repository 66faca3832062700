package service

import (
	"context"
	"time"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
)

type CommentService interface {
	CreateComment(ctx context.Context, createDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, id string, content string) (*dto.CommentDTO, error)
	FindComments(ctx context.Context, postNo int64, page *dto.PageDTO) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, id string) error
}

type commentServiceImpl struct {
	commentRepo  repository.CommentRepo
	postMetaRepo repository.PostMetaRepo
	tx           mongoPkg.TxRunner
}

func NewCommentService(commentRepo repository.CommentRepo, postMetaRepo repository.PostMetaRepo, tx mongoPkg.TxRunner) CommentService {
	return &commentServiceImpl{
		commentRepo:  commentRepo,
		postMetaRepo: postMetaRepo,
		tx:           tx,
	}
}

// CreateComment 新增评论，同一事务内维护文章的评论计数。
func (s *commentServiceImpl) CreateComment(ctx context.Context, createDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if err := validateDTO(createDTO); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostNo:          createDTO.PostNo,
		Nickname:        createDTO.Nickname,
		Content:         createDTO.Content,
		IsPostAuthor:    createDTO.IsPostAuthor,
		CreatedDate:     time.Now(),
		IsLatestVersion: true,
	}

	err := runInTx(ctx, s.tx, func(ctx context.Context) error {
		meta, err := s.postMetaRepo.FindOneByPostNo(ctx, createDTO.PostNo)
		if err != nil {
			return err
		}
		if meta == nil || meta.IsDeleted {
			return ErrPostNotFound(createDTO.PostNo)
		}

		if createDTO.RefCommentID != nil && *createDTO.RefCommentID != "" {
			refID, err := parseObjectID(*createDTO.RefCommentID)
			if err != nil {
				return err
			}
			ref, err := s.commentRepo.FindOneByID(ctx, refID)
			if err != nil {
				return err
			}
			if ref == nil {
				return ErrCommentNotFound(*createDTO.RefCommentID)
			}
			comment.RefComment = &ref.ID
		}

		id, err := s.commentRepo.Create(ctx, comment)
		if err != nil {
			return err
		}
		comment.ID = id
		return s.postMetaRepo.IncCommentCount(ctx, createDTO.PostNo, 1)
	})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(comment), nil
}

// UpdateComment 编辑评论：写入新版本并翻转旧版，不覆盖原记录。
func (s *commentServiceImpl) UpdateComment(ctx context.Context, id string, content string) (*dto.CommentDTO, error) {
	if content == "" {
		return nil, ErrParameterEmpty
	}
	commentID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var result *dto.CommentDTO
	err = runInTx(ctx, s.tx, func(ctx context.Context) error {
		old, err := s.commentRepo.FindOneByID(ctx, commentID)
		if err != nil {
			return err
		}
		if old == nil || !old.IsLatestVersion {
			return ErrCommentNotFound(id)
		}

		next := &model.Comment{
			PostNo:             old.PostNo,
			Nickname:           old.Nickname,
			RefComment:         old.RefComment,
			LastVersionComment: &old.ID,
			IsPostAuthor:       old.IsPostAuthor,
			Content:            content,
			CreatedDate:        time.Now(),
			IsLatestVersion:    true,
		}
		nextID, err := s.commentRepo.Create(ctx, next)
		if err != nil {
			return err
		}
		next.ID = nextID

		if err := s.commentRepo.MarkSuperseded(ctx, old.ID); err != nil {
			return err
		}
		result = toCommentDTO(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *commentServiceImpl) FindComments(ctx context.Context, postNo int64, page *dto.PageDTO) ([]*dto.CommentDTO, error) {
	if err := validateDTO(page); err != nil {
		return nil, err
	}

	limit := int64(page.PageSize)
	offset := int64(page.Page-1) * limit
	comments, err := s.commentRepo.FindByPostNo(ctx, postNo, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		result = append(result, toCommentDTO(c))
	}
	return result, nil
}

// DeleteComment 删除评论并回落评论计数。
func (s *commentServiceImpl) DeleteComment(ctx context.Context, id string) error {
	commentID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	return runInTx(ctx, s.tx, func(ctx context.Context) error {
		comment, err := s.commentRepo.FindOneByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound(id)
		}

		if err := s.commentRepo.DeleteByID(ctx, commentID); err != nil {
			return ErrCommentNotFound(id)
		}
		if comment.IsLatestVersion {
			return s.postMetaRepo.IncCommentCount(ctx, comment.PostNo, -1)
		}
		return nil
	})
}

func toCommentDTO(comment *model.Comment) *dto.CommentDTO {
	d := &dto.CommentDTO{
		ID:           comment.ID.Hex(),
		PostNo:       comment.PostNo,
		Nickname:     comment.Nickname,
		Content:      comment.Content,
		IsPostAuthor: comment.IsPostAuthor,
		CreatedDate:  comment.CreatedDate.Format(time.RFC3339),
	}
	if comment.RefComment != nil {
		d.RefComment = comment.RefComment.Hex()
	}
	return d
}
