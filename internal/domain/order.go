package domain

import "time"

// Order statuses, in lifecycle order. Cancelled is reachable from any
// non-terminal status.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	Region     string   `json:"region"`
	Directions string   `json:"directions,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	CustomerID        *string         `json:"customerId,omitempty"`
	CustomerName      string          `json:"customerName"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email,omitempty"`
	DeliveryDate      time.Time       `json:"deliveryDate"`
	TimeWindow        string          `json:"timeWindow"`
	Address           ShippingAddress `json:"address"`
	Items             []OrderItem     `json:"items"`
	SubtotalCents     int64           `json:"subtotalCents"`
	TaxCents          int64           `json:"taxCents"`
	DeliveryFeeCents  int64           `json:"deliveryFeeCents"`
	TotalCents        int64           `json:"totalCents"`
	PaymentMethod     string          `json:"paymentMethod"`
	PaymentReference  string          `json:"paymentReference,omitempty"`
	PaymentURL        string          `json:"paymentUrl,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId"`
	Title          string `json:"title"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}
