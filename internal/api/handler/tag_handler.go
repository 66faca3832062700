package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagSvc service.TagService
}

func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{
		tagSvc: tagSvc,
	}
}

func (s *TagHandler) CreateTag(c *gin.Context) {
	var req dto.TagCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	tag, err := s.tagSvc.CreateTag(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, tag)
}

func (s *TagHandler) UpdateTag(c *gin.Context) {
	name := c.Param("name")

	var req dto.TagUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.tagSvc.UpdateTag(c.Request.Context(), name, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TagHandler) FindTags(c *gin.Context) {
	var req dto.TagFindDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	tags, err := s.tagSvc.FindTags(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TagHandler) DeleteTag(c *gin.Context) {
	name := c.Param("name")

	if err := s.tagSvc.DeleteTag(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
