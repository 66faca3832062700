package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepo interface {
	Create(ctx context.Context, comment *model.Comment) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	FindByPostNo(ctx context.Context, postNo int64, limit, offset int64) ([]*model.Comment, error)
	MarkSuperseded(ctx context.Context, id primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		col: db.Collection("comment"),
	}
}

func (s *commentRepoImpl) Create(ctx context.Context, comment *model.Comment) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *commentRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// FindByPostNo 分页获取文章下的最新版评论（按时间正序）
func (s *commentRepoImpl) FindByPostNo(ctx context.Context, postNo int64, limit, offset int64) ([]*model.Comment, error) {
	filter := bson.M{"post_no": postNo, "is_latest_version": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_date", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Comment
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *commentRepoImpl) MarkSuperseded(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_latest_version": false}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *commentRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
