package handler

import (
	"strconv"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, post)
}

func (s *PostHandler) CreatePostVersion(c *gin.Context) {
	postNo, err := parsePostNo(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PostVersionCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	version, err := s.postSvc.CreatePostVersion(c.Request.Context(), postNo, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, version)
}

func (s *PostHandler) UpdatePostMeta(c *gin.Context) {
	postNo, err := parsePostNo(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PostMetaUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.UpdatePostMeta(c.Request.Context(), postNo, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) FindPosts(c *gin.Context) {
	var req dto.PostFindDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.FindPosts(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postNo, err := parsePostNo(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postNo, c.Query("language"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postNo, err := parsePostNo(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), postNo); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePostVersion(c *gin.Context) {
	if err := s.postSvc.DeletePostVersion(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) PreviewPost(c *gin.Context) {
	var req dto.PostPreviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postSvc.PreviewPost(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func parsePostNo(c *gin.Context) (int64, error) {
	postNo, err := strconv.ParseInt(c.Param("postNo"), 10, 64)
	if err != nil {
		return 0, service.ErrInvalidRequestParameter("postNo 必须是整数")
	}
	return postNo, nil
}
