package model

import (
	"Inkstone/internal/pkg/markdown"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostVersion 一次不可变的内容修订，通过 PostNo 关联 PostMeta。
// 同一 (PostNo, Language) 下任意时刻恰有一条 IsLatestVersion=true；
// 新版本写入时旧的最新版被置为 false，并由 LastPostVersion 串联。
type PostVersion struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostNo           int64               `bson:"post_no" json:"postNo"`
	Title            string              `bson:"title" json:"title"`
	RawContent       string              `bson:"raw_content" json:"rawContent"`
	RenderedContent  string              `bson:"rendered_content" json:"renderedContent"`
	TOC              []markdown.TOCItem  `bson:"toc" json:"toc"`
	Language         string              `bson:"language" json:"language"`
	ThumbnailContent string              `bson:"thumbnail_content" json:"thumbnailContent"`
	ThumbnailImage   *primitive.ObjectID `bson:"thumbnail_image,omitempty" json:"thumbnailImage,omitempty"`
	UpdatedDate      time.Time           `bson:"updated_date" json:"updatedDate"`
	IsLatestVersion  bool                `bson:"is_latest_version" json:"isLatestVersion"`
	LastPostVersion  *primitive.ObjectID `bson:"last_post_version,omitempty" json:"lastPostVersion,omitempty"`
}
