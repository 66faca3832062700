package job

import (
	"context"
	log "log/slog"
	"time"

	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"

	"github.com/goccy/go-json"
)

// ImageCleanupJob 回收上传后超时未被任何文章或系列引用的图片：
// 删除暂存桶对象、图片记录和待定登记。
type ImageCleanupJob struct {
	imageRepo repository.ImageRepo
}

func NewImageCleanupJob(imageRepo repository.ImageRepo) *ImageCleanupJob {
	return &ImageCleanupJob{imageRepo: imageRepo}
}

func (s *ImageCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start image cleanup job")

	pending, err := redis.HGetAll(ctx, consts.ImagePendingKey)
	if err != nil {
		log.Error("failed to get image pending hash", "err", err)
		return
	}

	now := time.Now().Unix()
	count := 0

	for title, val := range pending {
		var meta dto.ImagePendingMetadata
		if err := json.Unmarshal([]byte(val), &meta); err != nil {
			log.Warn("invalid image pending meta format", "title", title)
			continue
		}

		if now-meta.CreatedAt <= consts.PendingImageTTLSeconds {
			continue
		}

		if err = minio.DeleteFile(ctx, minio.TempBucket, title); err != nil {
			log.Error("failed to delete expired image from minio", "title", title, "err", err)
			continue
		}
		if err = s.imageRepo.DeleteByTitle(ctx, title); err != nil {
			log.Warn("failed to delete expired image record", "title", title, "err", err)
		}
		if err = redis.HDel(ctx, consts.ImagePendingKey, title); err != nil {
			log.Error("failed to remove image pending entry from redis", "title", title, "err", err)
		}

		count++
		log.Info("cleanup expired image", "title", title, "mime", meta.MimeType)
	}

	if count > 0 {
		log.Info("image cleanup job finished", "cleaned_count", count)
	}
}
