package dto

// SeriesCreateDTO 系列 - 新增
type SeriesCreateDTO struct {
	Name                string   `json:"name" binding:"required" validate:"min=1,max=64"`
	ThumbnailContent    string   `json:"thumbnailContent"`
	ThumbnailImageTitle *string  `json:"thumbnailImageTitle,omitempty"`
	PostMetaIDs         []string `json:"postMetaIdList,omitempty"`
}

// SeriesUpdateDTO 系列 - 修改。所有字段都为空时视为空请求。
type SeriesUpdateDTO struct {
	NewName             *string  `json:"newName,omitempty"`
	ThumbnailContent    *string  `json:"thumbnailContent,omitempty"`
	ThumbnailImageTitle *string  `json:"thumbnailImageTitle,omitempty"`
	PostMetaIDsToAdd    []string `json:"postMetaIdToBeAddedList,omitempty"`
	PostMetaIDsToRemove []string `json:"postMetaIdToBeRemovedList,omitempty"`
}

// SeriesFindDTO 系列 - 查询条件
type SeriesFindDTO struct {
	Name       string `form:"name"`
	IsContains bool   `form:"isContains"`
}

// SeriesDTO 系列 - 响应
type SeriesDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ThumbnailContent string   `json:"thumbnailContent"`
	ThumbnailImage   string   `json:"thumbnailImage,omitempty"`
	PostMetaList     []string `json:"postMetaList"`
}
