package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type Reviews struct {
	coll *mongo.Collection
}

func NewReviews(db *mongo.Database) *Reviews {
	return &Reviews{coll: db.Collection(ReviewsCollection)}
}

func (s *Reviews) Insert(ctx context.Context, review models.Review) error {
	if _, err := s.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *Reviews) ListByProduct(ctx context.Context, productID string, limit int64) ([]models.Review, error) {
	cursor, err := s.coll.Find(
		ctx,
		bson.M{"product_id": productID},
		options.Find().SetProjection(hideMongoID).SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}
