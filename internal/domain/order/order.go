package order

import (
	"encoding/json"
	"time"

	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
)

const (
	DeliveryFee          = 5.00
	TaxRate              = 0.08
	DefaultPaymentMethod = "credit_card"

	// ReloginDelay is how long a front end shows the expiry message before
	// sending the user back to login
	ReloginDelay = 2 * time.Second
)

// Totals is the price breakdown shown at checkout
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// ComputeTotals applies the flat delivery fee and sales tax to subtotal.
// Tax and total are rounded to cents; the total is computed from the
// unrounded tax.
func ComputeTotals(subtotal float64) Totals {
	tax := subtotal * TaxRate
	return Totals{
		Subtotal:    money.Round2(subtotal),
		DeliveryFee: DeliveryFee,
		Tax:         money.Round2(tax),
		Total:       money.Round2(subtotal + DeliveryFee + tax),
	}
}

// Item is one order line as the collaborator expects it
type Item struct {
	Product  ident.ID     `json:"product"`
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	Quantity int          `json:"quantity"`
	Image    string       `json:"image,omitempty"`
}

// Request is the body of POST /orders
type Request struct {
	Items           []Item  `json:"items"`
	TotalAmount     float64 `json:"totalAmount"`
	ShippingAddress string  `json:"shippingAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
}

// Order is a placed order as returned by the collaborator
type Order struct {
	ID              ident.ID     `json:"id"`
	UserID          ident.ID     `json:"user,omitempty"`
	Items           []Item       `json:"items"`
	TotalAmount     money.Amount `json:"totalAmount"`
	ShippingAddress string       `json:"shippingAddress"`
	PaymentMethod   string       `json:"paymentMethod"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		*alias
		MongoID ident.ID `json:"_id"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.ID.IsZero() {
		o.ID = aux.MongoID
	}
	return nil
}

// SalesAnalytics is the admin sales report for a trailing period in days
type SalesAnalytics struct {
	TotalSales     float64        `json:"totalSales"`
	TotalOrders    int            `json:"totalOrders"`
	NewUsers       int            `json:"newUsers"`
	TopProducts    []ProductSales `json:"topProducts"`
	PaymentMethods []PaymentCount `json:"paymentMethods"`
	DailySales     []DailySales   `json:"dailySales"`
}

// AverageOrderValue returns TotalSales / TotalOrders, or 0 with no orders
func (a SalesAnalytics) AverageOrderValue() float64 {
	if a.TotalOrders == 0 {
		return 0
	}
	return money.Round2(a.TotalSales / float64(a.TotalOrders))
}

type ProductSales struct {
	ID        ident.ID `json:"_id"`
	Name      string   `json:"name"`
	TotalSold int      `json:"totalSold"`
	Revenue   float64  `json:"revenue"`
}

type PaymentCount struct {
	Method string `json:"_id"`
	Count  int    `json:"count"`
}

type DailySales struct {
	Day    string  `json:"_id"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}
