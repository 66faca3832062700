package dto

// CommentCreateDTO 评论 - 新增
type CommentCreateDTO struct {
	PostNo       int64   `json:"postNo" binding:"required"`
	Nickname     string  `json:"nickname" binding:"required" validate:"min=1,max=64"`
	Content      string  `json:"content" binding:"required" validate:"min=1,max=2000"`
	RefCommentID *string `json:"refCommentId,omitempty"`
	IsPostAuthor bool    `json:"isPostAuthor"`
}

// CommentDTO 评论 - 响应
type CommentDTO struct {
	ID           string `json:"id"`
	PostNo       int64  `json:"postNo"`
	Nickname     string `json:"nickname"`
	Content      string `json:"content"`
	RefComment   string `json:"refComment,omitempty"`
	IsPostAuthor bool   `json:"isPostAuthor"`
	CreatedDate  string `json:"createdDate"`
}
