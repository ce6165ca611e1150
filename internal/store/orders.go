package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type Orders struct {
	coll *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{coll: db.Collection(OrdersCollection)}
}

func (s *Orders) Insert(ctx context.Context, order models.Order) error {
	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Orders) FindByID(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, byID(id), options.FindOne().SetProjection(hideMongoID)).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, models.ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// MarkPaid records the captured payment and moves the order to processing.
// The order must still carry the gateway order id the payment was made for.
func (s *Orders) MarkPaid(ctx context.Context, id, gatewayOrderID, paymentID, updatedAt string) error {
	result, err := s.coll.UpdateOne(
		ctx,
		bson.M{"id": id, "razorpay_order_id": gatewayOrderID},
		bson.M{"$set": bson.M{
			"payment_id": paymentID,
			"status":     models.OrderStatusProcessing,
			"updated_at": updatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Orders) SetStatus(ctx context.Context, id string, status models.OrderStatus, updatedAt string) error {
	result, err := s.coll.UpdateOne(
		ctx,
		byID(id),
		bson.M{"$set": bson.M{"status": status, "updated_at": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user_id": userID}, newestFirst(limit))
}

func (s *Orders) List(ctx context.Context, limit int64) ([]models.Order, error) {
	return s.find(ctx, bson.M{}, newestFirst(limit))
}

func (s *Orders) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *Orders) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// Revenue sums total_amount over orders in the given statuses. Amounts are
// added as decimals so many small totals do not drift.
func (s *Orders) Revenue(ctx context.Context, statuses []models.OrderStatus) (decimal.Decimal, error) {
	cursor, err := s.coll.Find(
		ctx,
		bson.M{"status": bson.M{"$in": statuses}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "total_amount", Value: 1}}),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("find paid orders: %w", err)
	}
	defer cursor.Close(ctx)

	total := decimal.Zero
	for cursor.Next(ctx) {
		var row struct {
			TotalAmount float64 `bson:"total_amount"`
		}
		if err := cursor.Decode(&row); err != nil {
			return decimal.Zero, fmt.Errorf("decode order total: %w", err)
		}
		total = total.Add(decimal.NewFromFloat(row.TotalAmount))
	}
	if err := cursor.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate paid orders: %w", err)
	}
	return total, nil
}

// StatusCounts groups every order by status. Orders without a status are
// counted as "unknown".
func (s *Orders) StatusCounts(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$status", "unknown"}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
