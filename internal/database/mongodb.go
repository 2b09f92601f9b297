// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Profiles *mongo.Collection
	Posts    *mongo.Collection
	Comments *mongo.Collection
	Media    *mongo.Collection
}

var _ Store = (*MongoDB)(nil)

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	slog.Info("connected to MongoDB", "database", dbName)

	db := client.Database(dbName)
	m := &MongoDB{
		Client:   client,
		Users:    db.Collection("users"),
		Profiles: db.Collection("profiles"),
		Posts:    db.Collection("posts"),
		Comments: db.Collection("comments"),
		Media:    db.Collection("media"),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.Users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	profileIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "readinglist", Value: 1}},
		},
	}
	if _, err := m.Profiles.Indexes().CreateMany(ctx, profileIndexes); err != nil {
		return fmt.Errorf("failed to create profile indexes: %v", err)
	}

	postIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "upvoteCount", Value: -1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "profile", Value: 1}},
		},
	}
	if _, err := m.Posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("failed to create post indexes: %v", err)
	}

	commentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "post", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "parent", Value: 1}},
		},
	}
	if _, err := m.Comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	return nil
}
