package dto

// ImageDTO 图片 - 响应
type ImageDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CreatedDate string `json:"createdDate"`
}

// ImagePendingMetadata 暂存图片元数据，存于 Redis 供清理任务判定
type ImagePendingMetadata struct {
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}
