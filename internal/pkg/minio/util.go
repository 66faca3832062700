package minio

import (
	"Inkstone/internal/api/config"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到指定桶
func UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// MoveToMainBucket 将暂存桶中的对象搬到正式桶（先 Copy 再删除源对象）
func MoveToMainBucket(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	src := minio.CopySrcOptions{Bucket: TempBucket, Object: objectName}
	dst := minio.CopyDestOptions{Bucket: MainBucket, Object: objectName}

	if _, err := Client.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("failed to copy object to main bucket: %w", err)
	}

	if err := Client.RemoveObject(ctx, TempBucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove temp object: %w", err)
	}
	return nil
}

// DeleteFile 删除指定桶中的文件
func DeleteFile(ctx context.Context, bucket, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetPublicURL 获取正式桶中文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO
	endpoint := cfg.ExternalEndpoint

	protocol := "http"
	if cfg.UsePublicLink {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, MainBucket, objectName)
}
