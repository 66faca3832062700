package handler

import (
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageSvc service.ImageService
}

func NewImageHandler(imageSvc service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageSvc: imageSvc,
	}
}

func (s *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrInvalidRequestParameter("缺少 file 字段"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, service.ErrFileNotUploaded)
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	image, err := s.imageSvc.UploadImage(c.Request.Context(), title, file, fileHeader.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessCreated(c, image)
}

func (s *ImageHandler) GetImage(c *gin.Context) {
	image, err := s.imageSvc.GetImage(c.Request.Context(), c.Param("title"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, image)
}

func (s *ImageHandler) FindImages(c *gin.Context) {
	images, err := s.imageSvc.FindImages(c.Request.Context(), c.Query("title"), c.Query("isContains") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, images)
}

func (s *ImageHandler) DeleteImage(c *gin.Context) {
	if err := s.imageSvc.DeleteImage(c.Request.Context(), c.Param("title")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
