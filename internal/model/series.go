package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Series 系列。PostMetaList 保序；一篇文章最多属于一个系列。
type Series struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name             string               `bson:"name" json:"name"`
	ThumbnailContent string               `bson:"thumbnail_content" json:"thumbnailContent"`
	ThumbnailImage   *primitive.ObjectID  `bson:"thumbnail_image,omitempty" json:"thumbnailImage,omitempty"`
	PostMetaList     []primitive.ObjectID `bson:"post_meta_list" json:"postMetaList"`
}
