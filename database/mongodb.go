package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var DB *mongo.Database

func ConnectDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGODB_URI")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	DB = client.Database("glimora")
	log.Println("🗄️ Connected to MongoDB!")
	return nil
}

// EnsureIndexes creates the unique indexes the handlers rely on. The unique
// orderID index is the backstop for the ID allocator: even if a duplicate were
// computed, the insert would fail instead of storing two orders with one ID.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := DB.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderID", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = DB.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = DB.Collection("products").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productID", Value: 1}},
		Options: unique,
	})
	return err
}
