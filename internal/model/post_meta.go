package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostMeta 一篇逻辑文章跨版本的可变元数据。PostNo 为全集合递增序号，创建时取 max+1。
// 删除为逻辑删除(IsDeleted)，内容修订见 PostVersion。
type PostMeta struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostNo       int64                `bson:"post_no" json:"postNo"`
	Category     *primitive.ObjectID  `bson:"category,omitempty" json:"category,omitempty"`
	Series       *primitive.ObjectID  `bson:"series,omitempty" json:"series,omitempty"`
	TagList      []primitive.ObjectID `bson:"tag_list" json:"tagList"`
	CreatedDate  time.Time            `bson:"created_date" json:"createdDate"`
	IsDeleted    bool                 `bson:"is_deleted" json:"isDeleted"`
	IsPrivate    bool                 `bson:"is_private" json:"isPrivate"`
	IsDeprecated bool                 `bson:"is_deprecated" json:"isDeprecated"`
	IsDraft      bool                 `bson:"is_draft" json:"isDraft"`
	CommentCount int64                `bson:"comment_count" json:"commentCount"`
}
