// Package analytics builds the read-only sales and stock summaries shown on
// the admin dashboard.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

const (
	RecentOrdersLimit = 10
	inventoryLimit    = 1000
)

type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context, statuses []models.OrderStatus) (decimal.Decimal, error)
	List(ctx context.Context, limit int64) ([]models.Order, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
}

type ProductStats interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int64) ([]models.Product, error)
}

type Dashboard struct {
	TotalOrders   int64            `json:"total_orders"`
	TotalRevenue  float64          `json:"total_revenue"`
	TotalProducts int64            `json:"total_products"`
	RecentOrders  []models.Order   `json:"recent_orders"`
	StatusCounts  map[string]int64 `json:"status_counts"`
}

type InventoryRow struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	TotalStock int                     `json:"total_stock"`
	Variants   []models.ProductVariant `json:"variants"`
}

type Service struct {
	orders   OrderStats
	products ProductStats
}

func NewService(orders OrderStats, products ProductStats) *Service {
	return &Service{orders: orders, products: products}
}

// Dashboard counts revenue only for orders that have been paid for. The sum
// is taken in decimal and converted once at the end.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count orders: %w", err)
	}
	revenue, err := s.orders.Revenue(ctx, models.PaidStatuses)
	if err != nil {
		return Dashboard{}, fmt.Errorf("sum revenue: %w", err)
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count products: %w", err)
	}
	recent, err := s.orders.List(ctx, RecentOrdersLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent orders: %w", err)
	}
	counts, err := s.orders.StatusCounts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("status counts: %w", err)
	}

	return Dashboard{
		TotalOrders:   totalOrders,
		TotalRevenue:  revenue.InexactFloat64(),
		TotalProducts: totalProducts,
		RecentOrders:  recent,
		StatusCounts:  counts,
	}, nil
}

func (s *Service) Inventory(ctx context.Context) ([]InventoryRow, error) {
	products, err := s.products.List(ctx, 0, inventoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	rows := make([]InventoryRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, InventoryRow{
			ID:         product.ID,
			Name:       product.Name,
			TotalStock: product.TotalStock(),
			Variants:   product.Variants,
		})
	}
	return rows, nil
}
