// Package orders runs the order lifecycle: a draft becomes a pending order
// linked to a gateway payment intent, a verified payment moves it to
// processing and takes the bought units out of stock, and staff may set any
// status afterwards.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/payment"
)

// ListLimit caps every order listing.
const ListLimit = 1000

var (
	ErrNotFound      = models.ErrNotFound
	ErrInvalidStatus = errors.New("invalid status")
)

// PaymentError means the payment callback could not be trusted. Nothing was
// changed.
type PaymentError struct {
	Err error
}

func (e *PaymentError) Error() string {
	return "Payment verification failed: " + e.Err.Error()
}

func (e *PaymentError) Unwrap() error { return e.Err }

// GatewayError means the gateway refused or failed to create the payment
// intent. Nothing was persisted.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "Payment gateway error: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

type Repository interface {
	Insert(ctx context.Context, order models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
	MarkPaid(ctx context.Context, id, gatewayOrderID, paymentID, updatedAt string) error
	SetStatus(ctx context.Context, id string, status models.OrderStatus, updatedAt string) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Order, error)
	List(ctx context.Context, limit int64) ([]models.Order, error)
}

type Inventory interface {
	DecrementStock(ctx context.Context, productID, color, size string, qty int) error
}

type Gateway interface {
	CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) error
}

type Service struct {
	orders    Repository
	inventory Inventory
	gateway   Gateway
	currency  string
	now       func() time.Time
}

func NewService(orders Repository, inventory Inventory, gateway Gateway, currency string) *Service {
	return &Service{
		orders:    orders,
		inventory: inventory,
		gateway:   gateway,
		currency:  currency,
		now:       time.Now,
	}
}

// Draft is what the checkout page submits. TotalAmount is taken as given.
type Draft struct {
	Items           []models.OrderItem     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	TotalAmount     float64                `json:"total_amount" binding:"gt=0"`
}

// Checkout is handed back to the client to open the gateway's payment form.
type Checkout struct {
	OrderID         string `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// Verification is the payload the gateway's checkout form returns.
type Verification struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"order_id" binding:"required"`
}

// Create registers a payment intent with the gateway and stores the pending
// order carrying its handle. A gateway failure leaves nothing behind.
func (s *Service) Create(ctx context.Context, draft Draft, customer auth.Identity) (Checkout, error) {
	now := models.Timestamp(s.now())
	address := draft.ShippingAddress
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}

	order := models.Order{
		ID:              models.NewID(),
		UserID:          customer.Subject,
		UserEmail:       customer.Email,
		Items:           draft.Items,
		ShippingAddress: address,
		TotalAmount:     draft.TotalAmount,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	intent, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:         payment.MinorUnits(draft.TotalAmount),
		Currency:       s.currency,
		Receipt:        order.ID,
		PaymentCapture: 1,
	})
	if err != nil {
		log.Printf("[ORDER] [ERROR] gateway order for %s failed: %v", order.ID, err)
		return Checkout{}, &GatewayError{Err: err}
	}
	order.RazorpayOrderID = &intent.ID

	if err := s.orders.Insert(ctx, order); err != nil {
		return Checkout{}, fmt.Errorf("store order %s: %w", order.ID, err)
	}
	log.Printf("[ORDER] [INFO] order %s created for user %s (gateway %s)", order.ID, order.UserID, intent.ID)

	return Checkout{
		OrderID:         order.ID,
		RazorpayOrderID: intent.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	}, nil
}

// VerifyPayment checks the gateway signature, marks the order paid and takes
// the ordered units out of stock. A bad signature changes nothing.
func (s *Service) VerifyPayment(ctx context.Context, v Verification) error {
	if err := s.gateway.VerifySignature(v.RazorpayOrderID, v.RazorpayPaymentID, v.RazorpaySignature); err != nil {
		log.Printf("[ORDER] [ERROR] signature rejected for order %s: %v", v.OrderID, err)
		return &PaymentError{Err: err}
	}

	if err := s.orders.MarkPaid(ctx, v.OrderID, v.RazorpayOrderID, v.RazorpayPaymentID, models.Timestamp(s.now())); err != nil {
		return fmt.Errorf("mark order %s paid: %w", v.OrderID, err)
	}

	order, err := s.orders.FindByID(ctx, v.OrderID)
	if err != nil {
		return fmt.Errorf("reload order %s: %w", v.OrderID, err)
	}

	// The payment is captured at this point; a failed decrement is logged
	// rather than reported as a failed payment.
	for _, item := range order.Items {
		if err := s.inventory.DecrementStock(ctx, item.ProductID, item.Color, item.Size, item.Quantity); err != nil {
			log.Printf("[ORDER] [ERROR] stock decrement for order %s product %s failed: %v", order.ID, item.ProductID, err)
		}
	}
	log.Printf("[ORDER] [INFO] payment %s verified for order %s", v.RazorpayPaymentID, order.ID)
	return nil
}

// UpdateStatus sets any of the known statuses. There is no transition guard.
func (s *Service) UpdateStatus(ctx context.Context, orderID, value string) error {
	status, ok := models.ParseOrderStatus(value)
	if !ok {
		return ErrInvalidStatus
	}
	if err := s.orders.SetStatus(ctx, orderID, status, models.Timestamp(s.now())); err != nil {
		return fmt.Errorf("set status of order %s: %w", orderID, err)
	}
	log.Printf("[ORDER] [INFO] order %s moved to %s", orderID, status)
	return nil
}

func (s *Service) ListForUser(ctx context.Context, customer auth.Identity) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, customer.Subject, ListLimit)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx, ListLimit)
}
