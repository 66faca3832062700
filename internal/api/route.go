package api

import (
	"net/http"

	"Inkstone/internal/api/middleware"
	"Inkstone/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/login", group.AuthHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.AuthHandler.Logout)
			}
		}

		categoryGroup := apiGroup.Group("/category")
		{
			categoryGroup.GET("", group.CategoryHandler.FindCategories)

			authGroup := categoryGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CategoryHandler.CreateCategory)
				authGroup.PATCH("/:name", group.CategoryHandler.UpdateCategory)
				authGroup.DELETE("/:name", group.CategoryHandler.DeleteCategory)
			}
		}

		tagGroup := apiGroup.Group("/tag")
		{
			tagGroup.GET("", group.TagHandler.FindTags)

			authGroup := tagGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.TagHandler.CreateTag)
				authGroup.PATCH("/:name", group.TagHandler.UpdateTag)
				authGroup.DELETE("/:name", group.TagHandler.DeleteTag)
			}
		}

		seriesGroup := apiGroup.Group("/series")
		{
			seriesGroup.GET("", group.SeriesHandler.FindSeries)

			authGroup := seriesGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.SeriesHandler.CreateSeries)
				authGroup.PATCH("/:name", group.SeriesHandler.UpdateSeries)
				authGroup.DELETE("/:name", group.SeriesHandler.DeleteSeries)
			}
		}

		postGroup := apiGroup.Group("/post")
		{
			postGroup.GET("", group.PostHandler.FindPosts)
			postGroup.GET("/:postNo", group.PostHandler.GetPost)

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.POST("/:postNo/version", group.PostHandler.CreatePostVersion)
				authGroup.PATCH("/:postNo", group.PostHandler.UpdatePostMeta)
				authGroup.DELETE("/:postNo", group.PostHandler.DeletePost)
				authGroup.DELETE("/version/:id", group.PostHandler.DeletePostVersion)
			}
		}

		previewGroup := apiGroup.Group("/postPreview")
		previewGroup.Use(middleware.AuthMiddleware())
		{
			previewGroup.POST("", group.PostHandler.PreviewPost)
		}

		imageGroup := apiGroup.Group("/image")
		{
			imageGroup.GET("", group.ImageHandler.FindImages)
			imageGroup.GET("/:title", group.ImageHandler.GetImage)

			authGroup := imageGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ImageHandler.UploadImage)
				authGroup.DELETE("/:title", group.ImageHandler.DeleteImage)
			}
		}

		commentGroup := apiGroup.Group("/comment")
		{
			commentGroup.GET("", group.CommentHandler.FindComments)
			commentGroup.POST("", group.CommentHandler.CreateComment)
			commentGroup.PATCH("/:id", group.CommentHandler.UpdateComment)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.DELETE("/:id", group.CommentHandler.DeleteComment)
			}
		}
	}

	return r
}
