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

type PostVersionRepo interface {
	Create(ctx context.Context, version *model.PostVersion) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostVersion, error)
	FindLatest(ctx context.Context, postNo int64, language string) (*model.PostVersion, error)
	Find(ctx context.Context, q Query) ([]*model.PostVersion, error)
	MarkSuperseded(ctx context.Context, id primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type postVersionRepoImpl struct {
	col *mongo.Collection
}

func NewPostVersionRepo(db *mongo.Database) PostVersionRepo {
	return &postVersionRepoImpl{
		col: db.Collection("post_version"),
	}
}

func (s *postVersionRepoImpl) Create(ctx context.Context, version *model.PostVersion) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, version)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *postVersionRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostVersion, error) {
	var version model.PostVersion
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&version)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &version, nil
}

// FindLatest 查询 (postNo, language) 当前的最新版本，不存在时返回 (nil, nil)
func (s *postVersionRepoImpl) FindLatest(ctx context.Context, postNo int64, language string) (*model.PostVersion, error) {
	filter := bson.M{
		"post_no":           postNo,
		"language":          language,
		"is_latest_version": true,
	}

	var version model.PostVersion
	err := s.col.FindOne(ctx, filter).Decode(&version)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &version, nil
}

func (s *postVersionRepoImpl) Find(ctx context.Context, q Query) ([]*model.PostVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_date", Value: -1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.PostVersion
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkSuperseded 把旧的最新版本置为非最新
func (s *postVersionRepoImpl) MarkSuperseded(ctx context.Context, id primitive.ObjectID) error {
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

func (s *postVersionRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
