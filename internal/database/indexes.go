package database

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/store"
)

func uniqueID(name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName(name).SetUnique(true),
	}
}

func EnsureProductIndexes(db *mongo.Database) error {
	return ensureIndexes(db, store.ProductsCollection, []mongo.IndexModel{
		uniqueID("product_id_unique"),
		{
			Keys:    bson.D{{Key: "featured", Value: 1}},
			Options: options.Index().SetName("featured_index"),
		},
	})
}

func EnsureReviewIndexes(db *mongo.Database) error {
	return ensureIndexes(db, store.ReviewsCollection, []mongo.IndexModel{
		uniqueID("review_id_unique"),
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetName("product_id_index"),
		},
	})
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return ensureIndexes(db, store.OrdersCollection, []mongo.IndexModel{
		uniqueID("order_id_unique"),
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_id_created_at_index"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_index"),
		},
	})
}

func EnsureSettingsIndexes(db *mongo.Database) error {
	return ensureIndexes(db, store.SettingsCollection, []mongo.IndexModel{
		uniqueID("settings_id_unique"),
	})
}

// EnsureIndexes creates every index the stores rely on. It keeps going after
// a failure and returns all errors joined.
func EnsureIndexes(db *mongo.Database) error {
	return errors.Join(
		EnsureProductIndexes(db),
		EnsureReviewIndexes(db),
		EnsureOrderIndexes(db),
		EnsureSettingsIndexes(db),
	)
}

func ensureIndexes(db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("[DB] [INFO] creating %d indexes on %s", len(models), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Printf("[DB] [ERROR] %s index error: %v", collection, err)
		return err
	}
	log.Printf("[DB] [INFO] %s indexes ready: %v", collection, names)
	return nil
}
