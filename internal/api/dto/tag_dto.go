package dto

// TagCreateDTO 标签 - 新增
type TagCreateDTO struct {
	Name string `json:"name" binding:"required" validate:"min=1,max=64"`
}

// TagUpdateDTO 标签 - 修改。所有字段都为空时视为空请求。
type TagUpdateDTO struct {
	NewName             *string  `json:"newName,omitempty"`
	PostMetaIDsToAdd    []string `json:"postMetaIdToBeAddedList,omitempty"`
	PostMetaIDsToRemove []string `json:"postMetaIdToBeRemovedList,omitempty"`
}

// TagFindDTO 标签 - 查询条件。IsContains 为真时按子串匹配（大小写不敏感）。
type TagFindDTO struct {
	Name       string `form:"name"`
	IsContains bool   `form:"isContains"`
}

// TagDTO 标签 - 响应
type TagDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PostMetaList []string `json:"postMetaList"`
}
