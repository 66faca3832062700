package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment 评论，父指针模型串联回复。编辑生成新记录并由 LastVersionComment 指向旧版。
type Comment struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostNo             int64               `bson:"post_no" json:"postNo"`
	Nickname           string              `bson:"nickname" json:"nickname"`
	RefComment         *primitive.ObjectID `bson:"ref_comment,omitempty" json:"refComment,omitempty"`
	LastVersionComment *primitive.ObjectID `bson:"last_version_comment,omitempty" json:"lastVersionComment,omitempty"`
	IsPostAuthor       bool                `bson:"is_post_author" json:"isPostAuthor"`
	Content            string              `bson:"content" json:"content"`
	CreatedDate        time.Time           `bson:"created_date" json:"createdDate"`
	IsLatestVersion    bool                `bson:"is_latest_version" json:"isLatestVersion"`
}
