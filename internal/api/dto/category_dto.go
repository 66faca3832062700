package dto

// CategoryCreateDTO 分类 - 新增
type CategoryCreateDTO struct {
	Name     string  `json:"name" binding:"required" validate:"min=1,max=64"`
	ParentID *string `json:"parentId,omitempty"`
}

// CategoryUpdateDTO 分类 - 修改。两个字段都为空时视为空请求。
type CategoryUpdateDTO struct {
	NewName     *string `json:"newName,omitempty"`
	NewParentID *string `json:"newParentId,omitempty"`
}

// CategoryFindDTO 分类 - 查询条件
type CategoryFindDTO struct {
	ID       string `form:"id"`
	Name     string `form:"name"`
	Level    *int   `form:"level"`
	ParentID string `form:"parentId"`
}

// CategoryDTO 分类 - 响应
type CategoryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
	Level    int    `json:"level"`
}
