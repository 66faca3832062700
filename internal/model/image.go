package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image 图片元数据。Title 即对象存储中的对象名，全局唯一。
type Image struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	CreatedDate time.Time          `bson:"created_date" json:"createdDate"`
	Size        int64              `bson:"size" json:"size"`
	Width       int                `bson:"width" json:"width"`
	Height      int                `bson:"height" json:"height"`
}
