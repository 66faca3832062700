package dto

import "Inkstone/internal/pkg/markdown"

// PostCreateDTO 文章 - 新增（元数据与首个内容版本一并创建）
type PostCreateDTO struct {
	Title               string   `json:"title" binding:"required" validate:"min=1,max=255"`
	RawContent          string   `json:"rawContent" binding:"required"`
	Language            string   `json:"language"`
	CategoryName        *string  `json:"categoryName,omitempty"`
	SeriesName          *string  `json:"seriesName,omitempty"`
	TagNames            []string `json:"tagNames,omitempty"`
	ThumbnailContent    string   `json:"thumbnailContent"`
	ThumbnailImageTitle *string  `json:"thumbnailImageTitle,omitempty"`
	IsPrivate           bool     `json:"isPrivate"`
	IsDraft             bool     `json:"isDraft"`
}

// PostVersionCreateDTO 文章 - 新内容版本
type PostVersionCreateDTO struct {
	Title               string  `json:"title" binding:"required" validate:"min=1,max=255"`
	RawContent          string  `json:"rawContent" binding:"required"`
	Language            string  `json:"language"`
	ThumbnailContent    string  `json:"thumbnailContent"`
	ThumbnailImageTitle *string `json:"thumbnailImageTitle,omitempty"`
}

// PostMetaUpdateDTO 文章 - 元数据修改。所有字段都为空时视为空请求。
// CategoryName / SeriesName 传空串表示清除关联。
type PostMetaUpdateDTO struct {
	CategoryName *string   `json:"categoryName,omitempty"`
	SeriesName   *string   `json:"seriesName,omitempty"`
	TagNames     *[]string `json:"tagNames,omitempty"`
	IsPrivate    *bool     `json:"isPrivate,omitempty"`
	IsDeprecated *bool     `json:"isDeprecated,omitempty"`
	IsDraft      *bool     `json:"isDraft,omitempty"`
}

// PostFindDTO 文章 - 查询条件。文本字段在 IsContains 为真时按子串匹配。
// From/To 为 updatedDate 的闭区间，RFC3339 格式。
type PostFindDTO struct {
	PostNo          *int64 `form:"postNo"`
	VersionID       string `form:"versionId"`
	Title           string `form:"title"`
	RawContent      string `form:"rawContent"`
	RenderedContent string `form:"renderedContent"`
	Language        string `form:"language"`
	IsLatestVersion *bool  `form:"isLatestVersion"`
	IsContains      bool   `form:"isContains"`
	From            string `form:"from"`
	To              string `form:"to"`
}

// PostVersionDTO 文章内容版本 - 响应
type PostVersionDTO struct {
	ID               string             `json:"id"`
	PostNo           int64              `json:"postNo"`
	Title            string             `json:"title"`
	RawContent       string             `json:"rawContent"`
	RenderedContent  string             `json:"renderedContent"`
	TOC              []markdown.TOCItem `json:"toc"`
	Language         string             `json:"language"`
	ThumbnailContent string             `json:"thumbnailContent"`
	ThumbnailImage   string             `json:"thumbnailImage,omitempty"`
	UpdatedDate      string             `json:"updatedDate"`
	IsLatestVersion  bool               `json:"isLatestVersion"`
	LastPostVersion  string             `json:"lastPostVersion,omitempty"`
}

// PostDTO 文章 - 响应（元数据 + 最新内容版本，引用已解析为名称）
type PostDTO struct {
	PostNo       int64           `json:"postNo"`
	CategoryName string          `json:"categoryName,omitempty"`
	SeriesName   string          `json:"seriesName,omitempty"`
	TagNames     []string        `json:"tagNames"`
	CreatedDate  string          `json:"createdDate"`
	IsPrivate    bool            `json:"isPrivate"`
	IsDeprecated bool            `json:"isDeprecated"`
	IsDraft      bool            `json:"isDraft"`
	CommentCount int64           `json:"commentCount"`
	Version      *PostVersionDTO `json:"version,omitempty"`
}

// PostPreviewDTO 未保存内容的预览请求
type PostPreviewDTO struct {
	RawContent string `json:"rawContent" binding:"required"`
}

// PostPreviewResultDTO 预览渲染结果
type PostPreviewResultDTO struct {
	RenderedContent string             `json:"renderedContent"`
	TOC             []markdown.TOCItem `json:"toc"`
}
