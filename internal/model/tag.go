package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag 标签。PostMetaList 与 PostMeta.TagList 互为镜像，更新必须成对出现在同一事务中。
type Tag struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	PostMetaList []primitive.ObjectID `bson:"post_meta_list" json:"postMetaList"`
}
