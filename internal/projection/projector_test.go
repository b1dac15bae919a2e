package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/domain/user"
	"github.com/example/foodyham/internal/event"
)

func createEvent(t *testing.T, aggregateID, aggregateType, eventType string, data any) event.Event {
	t.Helper()
	e, err := event.New(aggregateID, aggregateType, eventType, data)
	require.NoError(t, err)
	return e
}

// ============================================
// Cart Event Tests
// ============================================

func TestProjector_CartEvents(t *testing.T) {
	p := NewProjector()
	ctx := context.Background()

	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "cart", cart.AggregateType, cart.EventItemAdded, cart.ItemAddedToCart{ProductID: "1", Quantity: 2})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "cart", cart.AggregateType, cart.EventItemAdded, cart.ItemAddedToCart{ProductID: "3", Quantity: 1})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "cart", cart.AggregateType, cart.EventCartCleared, cart.CartCleared{CartID: "cart"})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "cart", cart.AggregateType, cart.EventCartRecovered, cart.CartRecovered{Reason: "corrupt snapshot"})))

	s := p.Summary()
	assert.Equal(t, 4, s.Events)
	assert.Equal(t, 3, s.ItemsAdded)
	assert.Equal(t, 1, s.CartsCleared)
	assert.Equal(t, 1, s.Recoveries)
	assert.Equal(t, 2, s.ByType[cart.EventItemAdded])
}

func TestProjector_BadCartPayload(t *testing.T) {
	p := NewProjector()
	e := event.Event{AggregateType: cart.AggregateType, EventType: cart.EventItemAdded, Data: []byte(`[`)}

	assert.Error(t, p.HandleEvent(context.Background(), e))
	assert.Equal(t, 1, p.Summary().Events)
}

// ============================================
// Session Event Tests
// ============================================

func TestProjector_SessionEvents(t *testing.T) {
	p := NewProjector()
	ctx := context.Background()

	for _, tt := range []struct {
		eventType string
		data      any
	}{
		{user.EventUserRegistered, user.UserRegistered{UserID: "u1"}},
		{user.EventUserLoggedIn, user.UserLoggedIn{UserID: "u1"}},
		{user.EventUserLoggedOut, user.UserLoggedOut{UserID: "u1", Reason: "session_expired"}},
		{user.EventSessionRecovered, user.SessionRecovered{Reason: "corrupt user record"}},
	} {
		require.NoError(t, p.HandleEvent(ctx, createEvent(t, "u1", user.AggregateType, tt.eventType, tt.data)))
	}

	s := p.Summary()
	assert.Equal(t, 1, s.Registrations)
	assert.Equal(t, 1, s.Logins)
	assert.Equal(t, 1, s.Logouts)
	assert.Equal(t, 1, s.Recoveries)
}

// ============================================
// Order Event Tests
// ============================================

func TestProjector_OrdersCountedOnce(t *testing.T) {
	p := NewProjector()
	ctx := context.Background()
	placed := order.OrderPlaced{OrderID: "order-1", UserID: "u1", Total: 41.69}

	// announced by the client keyed by user and by the collaborator keyed by order
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "u1", order.AggregateType, order.EventOrderPlaced, placed)))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "order-1", order.AggregateType, order.EventOrderPlaced, placed)))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "order-2", order.AggregateType, order.EventOrderPlaced, order.OrderPlaced{OrderID: "order-2", Total: 17.95})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "u1", order.AggregateType, order.EventCheckoutFailed, order.CheckoutFailed{UserID: "u1", Reason: "session_expired"})))

	s := p.Summary()
	assert.Equal(t, 2, s.OrdersPlaced)
	assert.Equal(t, 59.64, s.Revenue)
	assert.Equal(t, 1, s.CheckoutFailures)
	assert.Equal(t, 3, s.ByType[order.EventOrderPlaced])
}

func TestProjector_CatalogAndTop(t *testing.T) {
	p := NewProjector()
	ctx := context.Background()
	later := time.Now().Add(time.Hour)

	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "p1", product.AggregateType, product.EventProductCreated, product.ProductCreated{ProductID: "p1"})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "p1", product.AggregateType, product.EventProductUpdated, product.ProductUpdated{ProductID: "p1"})))
	require.NoError(t, p.HandleEvent(ctx, createEvent(t, "p2", product.AggregateType, product.EventProductCreated, product.ProductCreated{ProductID: "p2"})))
	e := createEvent(t, "x", "Unknown", "SomethingElse", struct{}{})
	e.Timestamp = later
	require.NoError(t, p.HandleEvent(ctx, e))

	s := p.Summary()
	assert.Equal(t, 3, s.CatalogChanges)
	assert.Equal(t, later, s.LastEventAt)
	assert.Equal(t, []TypeCount{
		{EventType: product.EventProductCreated, Count: 2},
		{EventType: product.EventProductUpdated, Count: 1},
	}, s.Top(2))
}

func TestProjector_SummaryIsACopy(t *testing.T) {
	p := NewProjector()
	require.NoError(t, p.HandleEvent(context.Background(), createEvent(t, "cart", cart.AggregateType, cart.EventCartCleared, cart.CartCleared{})))

	s := p.Summary()
	s.ByType[cart.EventCartCleared] = 99

	assert.Equal(t, 1, p.Summary().ByType[cart.EventCartCleared])
}
