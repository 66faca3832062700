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

type SeriesRepo interface {
	Create(ctx context.Context, series *model.Series) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Series, error)
	FindOneByName(ctx context.Context, name string) (*model.Series, error)
	Find(ctx context.Context, q Query) ([]*model.Series, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error
	AppendPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error
	RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type seriesRepoImpl struct {
	col *mongo.Collection
}

func NewSeriesRepo(db *mongo.Database) SeriesRepo {
	return &seriesRepoImpl{
		col: db.Collection("series"),
	}
}

func (s *seriesRepoImpl) Create(ctx context.Context, series *model.Series) (primitive.ObjectID, error) {
	if series.PostMetaList == nil {
		series.PostMetaList = []primitive.ObjectID{}
	}
	result, err := s.col.InsertOne(ctx, series)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *seriesRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.Series, error) {
	var series model.Series
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&series)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &series, nil
}

func (s *seriesRepoImpl) FindOneByName(ctx context.Context, name string) (*model.Series, error) {
	var series model.Series
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&series)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &series, nil
}

func (s *seriesRepoImpl) Find(ctx context.Context, q Query) ([]*model.Series, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.Series
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *seriesRepoImpl) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AppendPostMetas 按传入顺序把文章追加到系列末尾（$push 保序）
func (s *seriesRepoImpl) AppendPostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
	update := bson.M{"$push": bson.M{"post_meta_list": bson.M{"$each": postMetaIDs}}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *seriesRepoImpl) RemovePostMetas(ctx context.Context, id primitive.ObjectID, postMetaIDs []primitive.ObjectID) error {
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

func (s *seriesRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
