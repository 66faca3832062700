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

type PostMetaRepo interface {
	NextPostNo(ctx context.Context) (int64, error)
	Create(ctx context.Context, meta *model.PostMeta) (primitive.ObjectID, error)
	FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostMeta, error)
	FindOneByPostNo(ctx context.Context, postNo int64) (*model.PostMeta, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.PostMeta, error)
	Find(ctx context.Context, q Query) ([]*model.PostMeta, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error
	AddTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error
	RemoveTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error
	SetSeries(ctx context.Context, id primitive.ObjectID, seriesID primitive.ObjectID) error
	ClearSeries(ctx context.Context, id primitive.ObjectID) error
	IncCommentCount(ctx context.Context, postNo int64, delta int64) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type postMetaRepoImpl struct {
	col *mongo.Collection
}

func NewPostMetaRepo(db *mongo.Database) PostMetaRepo {
	return &postMetaRepoImpl{
		col: db.Collection("post_meta"),
	}
}

// NextPostNo 取当前最大序号加一。先读后写，唯一性依赖事务隔离级别与唯一索引兜底。
func (s *postMetaRepoImpl) NextPostNo(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "post_no", Value: -1}})

	var last model.PostMeta
	err := s.col.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, err
	}
	return last.PostNo + 1, nil
}

func (s *postMetaRepoImpl) Create(ctx context.Context, meta *model.PostMeta) (primitive.ObjectID, error) {
	if meta.TagList == nil {
		meta.TagList = []primitive.ObjectID{}
	}
	result, err := s.col.InsertOne(ctx, meta)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *postMetaRepoImpl) FindOneByID(ctx context.Context, id primitive.ObjectID) (*model.PostMeta, error) {
	var meta model.PostMeta
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&meta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

func (s *postMetaRepoImpl) FindOneByPostNo(ctx context.Context, postNo int64) (*model.PostMeta, error) {
	var meta model.PostMeta
	err := s.col.FindOne(ctx, bson.M{"post_no": postNo}).Decode(&meta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

func (s *postMetaRepoImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.PostMeta, error) {
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.PostMeta
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *postMetaRepoImpl) Find(ctx context.Context, q Query) ([]*model.PostMeta, error) {
	opts := options.Find().SetSort(bson.D{{Key: "post_no", Value: -1}})

	cursor, err := s.col.Find(ctx, q.Build(), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*model.PostMeta
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *postMetaRepoImpl) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postMetaRepoImpl) AddTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"tag_list": tagID}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postMetaRepoImpl) RemoveTag(ctx context.Context, id primitive.ObjectID, tagID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"tag_list": tagID}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postMetaRepoImpl) SetSeries(ctx context.Context, id primitive.ObjectID, seriesID primitive.ObjectID) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"series": seriesID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postMetaRepoImpl) ClearSeries(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{"series": ""}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postMetaRepoImpl) IncCommentCount(ctx context.Context, postNo int64, delta int64) error {
	update := bson.M{"$inc": bson.M{"comment_count": delta}}
	result, err := s.col.UpdateOne(ctx, bson.M{"post_no": postNo}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountByCategory 统计仍引用该分类的未删除文章数
func (s *postMetaRepoImpl) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"category": categoryID, "is_deleted": false})
}
