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

type CategoryRepo interface {
	Create(ctx context.Context, category *model.Category) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	FindOneByName(ctx context.Context, name string) (*model.Category, error)
	Find(ctx context.Context, q Query) ([]*model.Category, error)
	FindChildren(ctx context.Context, parentID primitive.ObjectID) ([]*model.Category, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type categoryRepoImpl struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) CategoryRepo {
	return &categoryRepoImpl{
		col: db.Collection("category"),
	}
}

func (s *categoryRepoImpl) Create(ctx context.Context, category *model.Category) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, category)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// FindOneByID 按 ID 查询，未命中返回 (nil, nil)
func (s *categoryRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var category model.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *categoryRepoImpl) FindOneByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *categoryRepoImpl) Find(ctx context.Context, q Query) ([]*model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Category
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindChildren 查询直接引用 parentID 的子分类
func (s *categoryRepoImpl) FindChildren(ctx context.Context, parentID primitive.ObjectID) ([]*model.Category, error) {
	cursor, err := s.col.Find(ctx, bson.M{"parent_category": parentID})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Category
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *categoryRepoImpl) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *categoryRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
