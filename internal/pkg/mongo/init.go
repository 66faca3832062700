package mongo

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接并返回 Database 引用，同时初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(cfg.Database)

	if err = ensureIndexes(ctx, db); err != nil {
		return nil, errors.Wrap(err, "ensure mongo indexes")
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// ensureIndexes 创建唯一性索引。序号与名称的唯一性最终由索引兜底。
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string]mongo.IndexModel{
		"category":  {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		"tag":       {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		"series":    {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		"post_meta": {Keys: bson.D{{Key: "post_no", Value: 1}}, Options: unique},
		"image":     {Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
	}

	for coll, model := range specs {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}

	// 版本查询按 (post_no, language, is_latest_version) 走索引
	_, err := db.Collection("post_version").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "post_no", Value: 1},
			{Key: "language", Value: 1},
			{Key: "is_latest_version", Value: 1},
		},
	})
	return err
}
