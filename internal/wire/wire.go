package wire

import (
	"Inkstone/internal/api"
	"Inkstone/internal/api/handler"
	"Inkstone/internal/job"
	"Inkstone/internal/pkg/cron"
	mongoPkg "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *mongo.Database
	CronMgr *cron.Manager
}

func BuildApplication(db *mongo.Database) (*ApplicationContainer, error) {
	categoryRepo := repository.NewCategoryRepo(db)
	tagRepo := repository.NewTagRepo(db)
	seriesRepo := repository.NewSeriesRepo(db)
	postMetaRepo := repository.NewPostMetaRepo(db)
	postVersionRepo := repository.NewPostVersionRepo(db)
	imageRepo := repository.NewImageRepo(db)
	commentRepo := repository.NewCommentRepo(db)

	tx := mongoPkg.NewTxRunner(db)

	categoryService := service.NewCategoryService(categoryRepo, postMetaRepo, tx)
	tagService := service.NewTagService(tagRepo, postMetaRepo, tx)
	seriesService := service.NewSeriesService(seriesRepo, postMetaRepo, imageRepo, tx)
	postService := service.NewPostService(postMetaRepo, postVersionRepo, categoryRepo, tagRepo, seriesRepo, imageRepo, tx)
	imageService := service.NewImageService(imageRepo)
	commentService := service.NewCommentService(commentRepo, postMetaRepo, tx)
	authService := service.NewAuthService()

	handlers := &api.HandlersGroup{
		AuthHandler:     handler.NewAuthHandler(authService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		TagHandler:      handler.NewTagHandler(tagService),
		SeriesHandler:   handler.NewSeriesHandler(seriesService),
		PostHandler:     handler.NewPostHandler(postService),
		ImageHandler:    handler.NewImageHandler(imageService),
		CommentHandler:  handler.NewCommentHandler(commentService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewImageCleanupJob(imageRepo))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
