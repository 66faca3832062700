package minio

import (
	"Inkstone/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MainBucket 正式图片存储桶
	MainBucket string
	// TempBucket 暂存桶，存放尚未被文章/系列引用的图片
	TempBucket string
)

// Init 初始化 MinIO 客户端，确保两个桶存在并给暂存桶挂上过期策略
func Init() error {
	cfg := config.Cfg.MinIO

	endpoint, useSSL := cfg.ExternalEndpoint, true
	if cfg.InternalEndpoint != "" {
		endpoint, useSSL = cfg.InternalEndpoint, cfg.InternalUseSSL
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("init minio client: %w", err)
	}

	ctx := context.Background()
	for _, bucket := range []string{cfg.MainBucket, cfg.TempBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("probe bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
			log.Info("minio bucket created", "bucket", bucket)
		}
	}

	Client = client
	MainBucket = cfg.MainBucket
	TempBucket = cfg.TempBucket
	return EnsureTempBucketLifecycle(ctx)
}

// EnsureTempBucketLifecycle 保证暂存桶带有 1 天过期策略，为清理任务兜底
func EnsureTempBucketLifecycle(ctx context.Context) error {
	const expireDays = 1

	lcConfig, err := Client.GetBucketLifecycle(ctx, TempBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	for _, rule := range lcConfig.Rules {
		// 已有开启状态的全桶 1 天过期规则即可复用
		if rule.Status == "Enabled" && rule.Expiration.Days == expireDays && rule.RuleFilter.Prefix == "" {
			log.Info("temp bucket lifecycle rule already present", "rule_id", rule.ID)
			return nil
		}
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:         "PendingImageExpireRule",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: expireDays},
	})
	if err := Client.SetBucketLifecycle(ctx, TempBucket, lcConfig); err != nil {
		return fmt.Errorf("set temp bucket lifecycle: %w", err)
	}
	log.Info("temp bucket lifecycle rule installed", "days", expireDays)
	return nil
}
