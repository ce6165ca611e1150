package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/store/memstore"
)

func seedOrders(t *testing.T, orders *memstore.Orders) {
	t.Helper()
	ctx := context.Background()
	rows := []struct {
		id     string
		status models.OrderStatus
		total  float64
		at     string
	}{
		{"o1", models.OrderStatusPending, 500, "2025-01-01T00:00:00.000000+00:00"},
		{"o2", models.OrderStatusProcessing, 0.1, "2025-01-02T00:00:00.000000+00:00"},
		{"o3", models.OrderStatusShipped, 0.2, "2025-01-03T00:00:00.000000+00:00"},
		{"o4", models.OrderStatusDelivered, 100, "2025-01-04T00:00:00.000000+00:00"},
		{"o5", models.OrderStatusCancelled, 900, "2025-01-05T00:00:00.000000+00:00"},
	}
	for _, row := range rows {
		require.NoError(t, orders.Insert(ctx, models.Order{ID: row.id, Status: row.status, TotalAmount: row.total, CreatedAt: row.at}))
	}
}

func TestDashboard(t *testing.T) {
	orders := memstore.NewOrders()
	products := memstore.NewProducts()
	seedOrders(t, orders)
	require.NoError(t, products.Insert(context.Background(), models.Product{ID: "p1"}))

	dashboard, err := NewService(orders, products).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), dashboard.TotalOrders)
	assert.Equal(t, int64(1), dashboard.TotalProducts)
	assert.Equal(t, 100.3, dashboard.TotalRevenue)
	require.Len(t, dashboard.RecentOrders, 5)
	assert.Equal(t, "o5", dashboard.RecentOrders[0].ID)
	assert.Equal(t, int64(1), dashboard.StatusCounts["cancelled"])
	assert.Equal(t, int64(1), dashboard.StatusCounts["pending"])

	payload, err := json.Marshal(dashboard)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total_revenue":100.3`)
}

func TestDashboardRecentIsCapped(t *testing.T) {
	orders := memstore.NewOrders()
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		require.NoError(t, orders.Insert(ctx, models.Order{ID: models.NewID(), Status: models.OrderStatusPending}))
	}

	dashboard, err := NewService(orders, memstore.NewProducts()).Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, dashboard.RecentOrders, RecentOrdersLimit)
}

func TestInventory(t *testing.T) {
	products := memstore.NewProducts()
	require.NoError(t, products.Insert(context.Background(), models.Product{
		ID:   "p1",
		Name: "Tee",
		Variants: []models.ProductVariant{
			{Color: "Red", Sizes: map[string]int{"S": 1, "M": 2}},
			{Color: "Blue", Sizes: map[string]int{"M": 4}},
		},
	}))
	require.NoError(t, products.Insert(context.Background(), models.Product{ID: "p2", Name: "Empty"}))

	rows, err := NewService(memstore.NewOrders(), products).Inventory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 7, rows[0].TotalStock)
	assert.Equal(t, 0, rows[1].TotalStock)
	assert.Len(t, rows[0].Variants, 2)
}
