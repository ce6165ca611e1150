package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type Products struct {
	coll *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{coll: db.Collection(ProductsCollection)}
}

func (s *Products) Insert(ctx context.Context, product models.Product) error {
	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Products) FindByID(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, byID(id), options.FindOne().SetProjection(hideMongoID)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, models.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// List returns products in insertion order. A zero limit means no limit.
func (s *Products) List(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	opts := options.Find().SetProjection(hideMongoID).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, bson.M{}, opts)
}

func (s *Products) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetProjection(hideMongoID).SetLimit(limit)
	return s.find(ctx, bson.M{"featured": true}, opts)
}

func (s *Products) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Replace overwrites every editable field of the product and returns the
// stored result. id and created_at are preserved.
func (s *Products) Replace(ctx context.Context, id string, product models.Product) (models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"images":      product.Images,
		"variants":    product.Variants,
		"category":    product.Category,
		"featured":    product.Featured,
	}}

	var updated models.Product
	err := s.coll.FindOneAndUpdate(
		ctx,
		byID(id),
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(hideMongoID),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, models.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("replace product: %w", err)
	}
	return updated, nil
}

func (s *Products) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Products) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// DecrementStock takes qty units of size off every variant of the given color
// in a single server-side update, so concurrent orders never overwrite each
// other's decrements. Counts are floored at zero; a product, color or size
// that does not exist is left untouched.
func (s *Products) DecrementStock(ctx context.Context, productID, color, size string, qty int) error {
	filter := bson.M{"id": productID, "variants.color": color}
	if _, err := s.coll.UpdateOne(ctx, filter, decrementPipeline(color, size, qty)); err != nil {
		return fmt.Errorf("decrement stock of %s: %w", productID, err)
	}
	return nil
}

// decrementPipeline rebuilds the variants array with the one size count
// lowered. Caller-provided strings go through $literal so a value such as
// "$price" is compared as text, not read as a field path.
func decrementPipeline(color, size string, qty int) mongo.Pipeline {
	lowered := bson.D{{Key: "$max", Value: bson.A{
		0,
		bson.D{{Key: "$subtract", Value: bson.A{"$$s.v", qty}}},
	}}}

	sizes := bson.D{{Key: "$arrayToObject", Value: bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$objectToArray", Value: "$$v.sizes"}}},
		{Key: "as", Value: "s"},
		{Key: "in", Value: bson.D{
			{Key: "k", Value: "$$s.k"},
			{Key: "v", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$$s.k", bson.D{{Key: "$literal", Value: size}}}}},
				lowered,
				"$$s.v",
			}}}},
		}},
	}}}}}

	variants := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: "$variants"},
		{Key: "as", Value: "v"},
		{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$$v.color", bson.D{{Key: "$literal", Value: color}}}}},
			bson.D{{Key: "$mergeObjects", Value: bson.A{"$$v", bson.D{{Key: "sizes", Value: sizes}}}}},
			"$$v",
		}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "variants", Value: variants}}}},
	}
}
