package api

import "Inkstone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler     *handler.AuthHandler
	CategoryHandler *handler.CategoryHandler
	TagHandler      *handler.TagHandler
	SeriesHandler   *handler.SeriesHandler
	PostHandler     *handler.PostHandler
	ImageHandler    *handler.ImageHandler
	CommentHandler  *handler.CommentHandler
}
