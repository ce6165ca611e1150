package models

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// DefaultCountry is used when a shipping address omits the country.
const DefaultCountry = "India"

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// PaidStatuses are the statuses whose totals count as revenue.
var PaidStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func ParseOrderStatus(value string) (OrderStatus, bool) {
	for _, status := range orderStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// OrderItem is a snapshot of the product line at order time.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id" binding:"required"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Color       string  `bson:"color" json:"color"`
	Size        string  `bson:"size" json:"size"`
	Quantity    int     `bson:"quantity" json:"quantity" binding:"gte=1"`
	Price       float64 `bson:"price" json:"price" binding:"gte=0"`
}

type ShippingAddress struct {
	Name         string `bson:"name" json:"name" binding:"required"`
	Phone        string `bson:"phone" json:"phone" binding:"required"`
	AddressLine1 string `bson:"address_line1" json:"address_line1" binding:"required"`
	AddressLine2 string `bson:"address_line2" json:"address_line2"`
	City         string `bson:"city" json:"city" binding:"required"`
	State        string `bson:"state" json:"state" binding:"required"`
	PostalCode   string `bson:"postal_code" json:"postal_code" binding:"required"`
	Country      string `bson:"country" json:"country"`
}

// Order defines the persisted order document. PaymentID and RazorpayOrderID
// stay nil until the gateway hands them out.
type Order struct {
	ID              string          `bson:"id" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	UserEmail       string          `bson:"user_email" json:"user_email"`
	Items           []OrderItem     `bson:"items" json:"items"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	TotalAmount     float64         `bson:"total_amount" json:"total_amount"`
	PaymentID       *string         `bson:"payment_id" json:"payment_id"`
	RazorpayOrderID *string         `bson:"razorpay_order_id" json:"razorpay_order_id"`
	Status          OrderStatus     `bson:"status" json:"status"`
	CreatedAt       string          `bson:"created_at" json:"created_at"`
	UpdatedAt       string          `bson:"updated_at" json:"updated_at"`
}
