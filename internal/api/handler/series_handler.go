package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type SeriesHandler struct {
	seriesSvc service.SeriesService
}

func NewSeriesHandler(seriesSvc service.SeriesService) *SeriesHandler {
	return &SeriesHandler{
		seriesSvc: seriesSvc,
	}
}

func (s *SeriesHandler) CreateSeries(c *gin.Context) {
	var req dto.SeriesCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	series, err := s.seriesSvc.CreateSeries(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, series)
}

func (s *SeriesHandler) UpdateSeries(c *gin.Context) {
	name := c.Param("name")

	var req dto.SeriesUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.seriesSvc.UpdateSeries(c.Request.Context(), name, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *SeriesHandler) FindSeries(c *gin.Context) {
	var req dto.SeriesFindDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	seriesList, err := s.seriesSvc.FindSeries(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, seriesList)
}

func (s *SeriesHandler) DeleteSeries(c *gin.Context) {
	name := c.Param("name")

	if err := s.seriesSvc.DeleteSeries(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
