package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/foodyham/internal/domain/order"
)

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.99, "$9.99"},
		{41.6876, "$41.69"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-12, "-$12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDollars(tt.in))
		})
	}
}

func TestBuildOrderConfirmationBody(t *testing.T) {
	o := order.Order{
		ID:          "o-12345678-abcd",
		Status:      "pending",
		TotalAmount: 41.69,
		Items: []order.Item{
			{Product: "1", Name: "Classic <Cheese>burger", Price: 11.99, Quantity: 2},
			{Product: "3", Price: 9.99, Quantity: 1},
		},
		ShippingAddress: "1 Main St",
	}

	body := BuildOrderConfirmationBody(o)

	assert.Contains(t, body, "Classic &lt;Cheese&gt;burger")
	assert.Contains(t, body, "$23.98")
	assert.Contains(t, body, ">3<", "unnamed items fall back to the product id")
	assert.Contains(t, body, "Total: $41.69")
	assert.Contains(t, body, "1 Main St")
	assert.Contains(t, body, "o-12345678-abcd")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "o-123456", shortID("o-12345678-abcd"))
	assert.Equal(t, "o-1", shortID("o-1"))
}
