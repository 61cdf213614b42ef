package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductCollection     *mongo.Collection
	VariationCollection   *mongo.Collection
	CategoryCollection    *mongo.Collection
	SliderCollection      *mongo.Collection
	PageCollection        *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	ShipmentCollection    *mongo.Collection
	SettingsCollection    *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	store := Client.Database("tokri")
	UserCollection = store.Collection("users")
	ProductCollection = store.Collection("products")
	VariationCollection = store.Collection("variations")
	CategoryCollection = store.Collection("categories")
	SliderCollection = store.Collection("sliders")
	PageCollection = store.Collection("pages")
	CartCollection = store.Collection("carts")
	OrderCollection = store.Collection("orders")
	ShipmentCollection = store.Collection("shipments")
	SettingsCollection = store.Collection("settings")
	IdempotencyCollection = store.Collection("idempotency")
}
