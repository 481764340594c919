package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Store 文档库连接与集合句柄
type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Users    *mongo.Collection
		Contests *mongo.Collection
		Payments *mongo.Collection
	}
}

// Init 初始化文档库连接
func Init(cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Users = db.Collection(model.UserModel{}.CollectionName())
	s.Collections.Contests = db.Collection(model.ContestModel{}.CollectionName())
	s.Collections.Payments = db.Collection(model.PaymentModel{}.CollectionName())

	return s, nil
}

// Close 关闭文档库连接
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
