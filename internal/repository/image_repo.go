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

type ImageRepo interface {
	Create(ctx context.Context, image *model.Image) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Image, error)
	FindOneByTitle(ctx context.Context, title string) (*model.Image, error)
	Find(ctx context.Context, q Query) ([]*model.Image, error)
	DeleteByTitle(ctx context.Context, title string) error
}

type imageRepoImpl struct {
	col *mongo.Collection
}

func NewImageRepo(db *mongo.Database) ImageRepo {
	return &imageRepoImpl{
		col: db.Collection("image"),
	}
}

func (s *imageRepoImpl) Create(ctx context.Context, image *model.Image) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, image)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *imageRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Image, error) {
	var image model.Image
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (s *imageRepoImpl) FindOneByTitle(ctx context.Context, title string) (*model.Image, error) {
	var image model.Image
	err := s.col.FindOne(ctx, bson.M{"title": title}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (s *imageRepoImpl) Find(ctx context.Context, q Query) ([]*model.Image, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_date", Value: -1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Image
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *imageRepoImpl) DeleteByTitle(ctx context.Context, title string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"title": title})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
