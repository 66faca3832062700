package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 分类。Level 由父级派生：根分类为 0，子分类为 parent.Level+1。
type Category struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	ParentCategory *primitive.ObjectID `bson:"parent_category,omitempty" json:"parentCategory,omitempty"`
	Level          int                 `bson:"level" json:"level"`
}
