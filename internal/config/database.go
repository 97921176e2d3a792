package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewMongoDatabase connects to MongoDB, verifies the connection and ensures
// the unique user indexes. The client disconnects on fx shutdown.
func NewMongoDatabase(lc fx.Lifecycle, cfg *Config, log *zap.Logger) (*mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

	db := client.Database(cfg.MongoDB)

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			return ensureUserIndexes(startCtx, db, log)
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info("Closing MongoDB connection ...")
			return client.Disconnect(stopCtx)
		},
	})
	return db, nil
}

// ensureUserIndexes creates the unique indexes backing the username and email
// constraints. Duplicate inserts then surface as mongo duplicate-key errors.
func ensureUserIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.M{"username": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.M{"email": 1},
			Options: options.Index().SetUnique(true),
		},
	}

	idxCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.Collection("users").Indexes().CreateMany(idxCtx, indexes); err != nil {
		return err
	}
	log.Info("Unique indexes on users.username and users.email ensured")
	return nil
}
