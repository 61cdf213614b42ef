package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes sets up the unique and TTL indexes the flows rely on.
func CreateIndexes(ctx context.Context) error {
	if _, err := ProductCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"slug": 1},
		Options: options.Index().SetUnique(true).SetName("unique_slug"),
	}); err != nil {
		return err
	}

	if _, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	}); err != nil {
		return err
	}

	if _, err := ShipmentCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_shipment_id", Value: 1}},
		Options: options.Index().SetName("provider_shipment"),
	}); err != nil {
		return err
	}

	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := IdempotencyCollection.Indexes().CreateMany(ctx, idxs)
	return err
}
