package order

import "time"

const (
	AggregateType = "Order"

	EventOrderPlaced    = "OrderPlaced"
	EventCheckoutFailed = "CheckoutFailed"
)

type OrderPlaced struct {
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	Items         []Item    `json:"items"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	Address       string    `json:"shipping_address,omitempty"`
	PlacedAt      time.Time `json:"placed_at"`
}

type CheckoutFailed struct {
	UserID   string    `json:"user_id"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
