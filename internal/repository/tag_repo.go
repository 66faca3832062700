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

type TagRepo interface {
	Create(ctx context.Context, tag *model.Tag) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error)
	FindOneByName(ctx context.Context, name string) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error)
	Find(ctx context.Context, q Query) ([]*model.Tag, error)
	Rename(ctx context.Context, id primitive.ObjectID, newName string) error
	AddPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error
	RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type tagRepoImpl struct {
	col *mongo.Collection
}

func NewTagRepo(db *mongo.Database) TagRepo {
	return &tagRepoImpl{
		col: db.Collection("tag"),
	}
}

func (s *tagRepoImpl) Create(ctx context.Context, tag *model.Tag) (primitive.ObjectID, error) {
	if tag.PostMetaList == nil {
		tag.PostMetaList = []primitive.ObjectID{}
	}
	result, err := s.col.InsertOne(ctx, tag)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *tagRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	var tag model.Tag
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (s *tagRepoImpl) FindOneByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&tag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (s *tagRepoImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Tag
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *tagRepoImpl) Find(ctx context.Context, q Query) ([]*model.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Tag
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *tagRepoImpl) Rename(ctx context.Context, id primitive.ObjectID, newName string) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": newName}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddPostMetas 向标签的文章列表追加引用（$addToSet 去重）
func (s *tagRepoImpl) AddPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"post_meta_list": bson.M{"$each": postMetaIDs}}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *tagRepoImpl) RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"post_meta_list": bson.M{"$in": postMetaIDs}}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *tagRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
