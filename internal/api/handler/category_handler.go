package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	category, err := s.categorySvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, category)
}

func (s *CategoryHandler) UpdateCategory(c *gin.Context) {
	name := c.Param("name")

	var req dto.CategoryUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.categorySvc.UpdateCategory(c.Request.Context(), name, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CategoryHandler) FindCategories(c *gin.Context) {
	var req dto.CategoryFindDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	categories, err := s.categorySvc.FindCategories(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	name := c.Param("name")

	if err := s.categorySvc.DeleteCategory(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
