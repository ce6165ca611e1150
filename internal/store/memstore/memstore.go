// Package memstore keeps storefront collections in process memory. It mirrors
// the method set of the MongoDB stores and backs handler and service tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

type Products struct {
	mu    sync.RWMutex
	items []models.Product
}

func NewProducts() *Products {
	return &Products{}
}

func (s *Products) Insert(_ context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneProduct(product))
	return nil
}

func (s *Products) FindByID(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return cloneProduct(s.items[i]), nil
	}
	return models.Product{}, models.ErrNotFound
}

func (s *Products) List(_ context.Context, skip, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0)
	for i := skip; i < int64(len(s.items)); i++ {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, cloneProduct(s.items[i]))
	}
	return out, nil
}

func (s *Products) Featured(_ context.Context, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, product := range s.items {
		if int64(len(out)) >= limit {
			break
		}
		if product.Featured {
			out = append(out, cloneProduct(product))
		}
	}
	return out, nil
}

func (s *Products) Replace(_ context.Context, id string, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.Product{}, models.ErrNotFound
	}
	product.ID = s.items[i].ID
	product.CreatedAt = s.items[i].CreatedAt
	s.items[i] = cloneProduct(product)
	return cloneProduct(product), nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Products) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *Products) DecrementStock(_ context.Context, productID, color, size string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(productID); i >= 0 {
		s.items[i].DecrementStock(color, size, qty)
	}
	return nil
}

func (s *Products) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneProduct(p models.Product) models.Product {
	out := p
	out.Images = append([]models.ProductImage(nil), p.Images...)
	out.Variants = make([]models.ProductVariant, len(p.Variants))
	for i, variant := range p.Variants {
		sizes := make(map[string]int, len(variant.Sizes))
		for size, count := range variant.Sizes {
			sizes[size] = count
		}
		variant.Sizes = sizes
		out.Variants[i] = variant
	}
	return out
}

type Reviews struct {
	mu    sync.RWMutex
	items []models.Review
}

func NewReviews() *Reviews {
	return &Reviews{}
}

func (s *Reviews) Insert(_ context.Context, review models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, review)
	return nil
}

func (s *Reviews) ListByProduct(_ context.Context, productID string, limit int64) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, 0)
	for _, review := range s.items {
		if int64(len(out)) >= limit {
			break
		}
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, nil
}

type Orders struct {
	mu    sync.RWMutex
	items []models.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Insert(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneOrder(order))
	return nil
}

func (s *Orders) FindByID(_ context.Context, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return cloneOrder(s.items[i]), nil
	}
	return models.Order{}, models.ErrNotFound
}

func (s *Orders) MarkPaid(_ context.Context, id, gatewayOrderID, paymentID, updatedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.ErrNotFound
	}
	order := &s.items[i]
	if order.RazorpayOrderID == nil || *order.RazorpayOrderID != gatewayOrderID {
		return models.ErrNotFound
	}
	order.PaymentID = &paymentID
	order.Status = models.OrderStatusProcessing
	order.UpdatedAt = updatedAt
	return nil
}

func (s *Orders) SetStatus(_ context.Context, id string, status models.OrderStatus, updatedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.ErrNotFound
	}
	s.items[i].Status = status
	s.items[i].UpdatedAt = updatedAt
	return nil
}

func (s *Orders) ListByUser(_ context.Context, userID string, limit int64) ([]models.Order, error) {
	return s.newestFirst(limit, func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *Orders) List(_ context.Context, limit int64) ([]models.Order, error) {
	return s.newestFirst(limit, func(models.Order) bool { return true }), nil
}

func (s *Orders) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *Orders) Revenue(_ context.Context, statuses []models.OrderStatus) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, order := range s.items {
		for _, status := range statuses {
			if order.Status == status {
				total = total.Add(decimal.NewFromFloat(order.TotalAmount))
				break
			}
		}
	}
	return total, nil
}

func (s *Orders) StatusCounts(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, order := range s.items {
		status := string(order.Status)
		if status == "" {
			status = "unknown"
		}
		counts[status]++
	}
	return counts, nil
}

func (s *Orders) newestFirst(limit int64, keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]models.Order, 0)
	for _, order := range s.items {
		if keep(order) {
			matched = append(matched, cloneOrder(order))
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched
}

func (s *Orders) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrder(o models.Order) models.Order {
	out := o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	if o.PaymentID != nil {
		v := *o.PaymentID
		out.PaymentID = &v
	}
	if o.RazorpayOrderID != nil {
		v := *o.RazorpayOrderID
		out.RazorpayOrderID = &v
	}
	return out
}

type Settings struct {
	mu      sync.RWMutex
	landing *models.LandingSettings
}

func NewSettings() *Settings {
	return &Settings{}
}

func (s *Settings) Landing(_ context.Context) (models.LandingSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.landing == nil {
		return models.LandingSettings{}, models.ErrNotFound
	}
	return *s.landing, nil
}

func (s *Settings) SaveLanding(_ context.Context, settings models.LandingSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = models.LandingSettingsID
	s.landing = &settings
	return nil
}
