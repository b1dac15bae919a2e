package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/event"
)

type mockSender struct {
	calls []sentMail
	err   error
}

type sentMail struct {
	to    string
	order order.Order
}

func (m *mockSender) SendOrderConfirmation(ctx context.Context, to string, o order.Order) error {
	m.calls = append(m.calls, sentMail{to: to, order: o})
	return m.err
}

func orderPlacedEvent(t *testing.T, data order.OrderPlaced) event.Event {
	t.Helper()
	e, err := event.New(data.OrderID, order.AggregateType, order.EventOrderPlaced, data)
	require.NoError(t, err)
	return e
}

func TestHandler_SendsConfirmation(t *testing.T) {
	sender := &mockSender{}
	h := NewHandler(sender)
	placedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := h.HandleEvent(context.Background(), orderPlacedEvent(t, order.OrderPlaced{
		OrderID:       "order-1",
		UserID:        "user-1",
		Email:         "user@foodyham.com",
		Items:         []order.Item{{Product: "1", Name: "Classic Cheeseburger", Price: 11.99, Quantity: 2}},
		Total:         30.89,
		PaymentMethod: order.DefaultPaymentMethod,
		Address:       "42 Market Street",
		PlacedAt:      placedAt,
	}))

	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "user@foodyham.com", sender.calls[0].to)
	got := sender.calls[0].order
	assert.Equal(t, "order-1", got.ID.String())
	assert.Equal(t, 30.89, got.TotalAmount.Float64())
	assert.Equal(t, "42 Market Street", got.ShippingAddress)
	assert.Equal(t, placedAt, got.CreatedAt)
	assert.Len(t, got.Items, 1)
}

func TestHandler_MailsEachOrderOnce(t *testing.T) {
	sender := &mockSender{}
	h := NewHandler(sender)
	e := orderPlacedEvent(t, order.OrderPlaced{OrderID: "order-1", Email: "user@foodyham.com"})

	require.NoError(t, h.HandleEvent(context.Background(), e))
	require.NoError(t, h.HandleEvent(context.Background(), e))

	assert.Len(t, sender.calls, 1)
}

func TestHandler_RetriesAfterSendFailure(t *testing.T) {
	sender := &mockSender{err: errors.New("smtp unavailable")}
	h := NewHandler(sender)
	e := orderPlacedEvent(t, order.OrderPlaced{OrderID: "order-1", Email: "user@foodyham.com"})

	assert.Error(t, h.HandleEvent(context.Background(), e))
	sender.err = nil
	assert.NoError(t, h.HandleEvent(context.Background(), e))

	assert.Len(t, sender.calls, 2)
}

func TestHandler_IgnoresOtherEvents(t *testing.T) {
	sender := &mockSender{}
	h := NewHandler(sender)
	e, err := event.New("cart", cart.AggregateType, cart.EventCartCleared, cart.CartCleared{CartID: "cart"})
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), e))
	require.NoError(t, h.HandleEvent(context.Background(), orderPlacedEvent(t, order.OrderPlaced{OrderID: "order-2"})))

	assert.Empty(t, sender.calls)
}

func TestHandler_BadPayload(t *testing.T) {
	h := NewHandler(&mockSender{})
	e := event.Event{EventType: order.EventOrderPlaced, Data: []byte(`{"order_id":`)}

	assert.Error(t, h.HandleEvent(context.Background(), e))
}
