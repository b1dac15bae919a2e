package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/domain/session"
	sessionmocks "github.com/example/foodyham/internal/domain/session/mocks"
	eventmocks "github.com/example/foodyham/internal/event/mocks"
	"github.com/example/foodyham/internal/infrastructure/storage"
	kvmocks "github.com/example/foodyham/internal/infrastructure/storage/mocks"
)

type mockPlacer struct {
	requests []Request
	order    Order
	err      error
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, req Request) (Order, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return Order{}, m.err
	}
	return m.order, nil
}

type fixture struct {
	kv        *kvmocks.MockKV
	cart      *cart.Store
	session   *session.Store
	placer    *mockPlacer
	publisher *eventmocks.MockPublisher
	service   *Service
}

func newFixture(t *testing.T, authenticated bool) *fixture {
	t.Helper()
	ctx := context.Background()
	quiet := log.New(io.Discard, "", 0)

	kv := kvmocks.NewMockKV()
	if authenticated {
		kv.Put(storage.KeyToken, "tok-1")
		kv.Put(storage.KeyUser, `{"id":"u-1","name":"Jane","email":"jane@foodyham.com","role":"user","address":"1 Main St"}`)
	}

	cartStore := cart.NewStore(kv, cart.WithLogger(quiet))
	cartStore.Initialize(ctx)
	sessionStore := session.NewStore(kv, sessionmocks.NewMockCollaborator(), session.WithLogger(quiet))
	sessionStore.Initialize(ctx)

	placer := &mockPlacer{order: Order{ID: "o-1", Status: "pending"}}
	publisher := eventmocks.NewMockPublisher()

	return &fixture{
		kv:        kv,
		cart:      cartStore,
		session:   sessionStore,
		placer:    placer,
		publisher: publisher,
		service:   NewService(cartStore, sessionStore, placer, WithLogger(quiet), WithPublisher(publisher)),
	}
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: "1", Name: "Classic Cheeseburger", Price: 11.99, Image: "burger.jpg"}, 2))
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: "3", Name: "Caesar Salad", Price: 9.99}, 1))
}

// ============================================
// ComputeTotals Tests
// ============================================

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		want     Totals
	}{
		{"empty", 0, Totals{Subtotal: 0, DeliveryFee: 5, Tax: 0, Total: 5}},
		{"two burgers and a salad", 33.97, Totals{Subtotal: 33.97, DeliveryFee: 5, Tax: 2.72, Total: 41.69}},
		{"round number", 100, Totals{Subtotal: 100, DeliveryFee: 5, Tax: 8, Total: 113}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotals(tt.subtotal))
		})
	}
}

func TestSalesAnalytics_AverageOrderValue(t *testing.T) {
	assert.Equal(t, 0.0, SalesAnalytics{}.AverageOrderValue())
	assert.Equal(t, 33.33, SalesAnalytics{TotalSales: 100, TotalOrders: 3}.AverageOrderValue())
}

func TestOrder_UnmarshalIDFallback(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","totalAmount":"41.69","status":"pending"}`), &o))

	assert.Equal(t, "abc", o.ID.String())
	assert.Equal(t, 41.69, o.TotalAmount.Float64())
}

// ============================================
// Checkout Tests
// ============================================

func TestService_Checkout(t *testing.T) {
	f := newFixture(t, true)
	f.fillCart(t)

	receipt, err := f.service.Checkout(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "o-1", receipt.Order.ID.String())
	assert.Equal(t, 41.69, receipt.Totals.Total)

	require.Len(t, f.placer.requests, 1)
	req := f.placer.requests[0]
	assert.Equal(t, DefaultPaymentMethod, req.PaymentMethod)
	assert.Equal(t, "1 Main St", req.ShippingAddress)
	assert.Equal(t, 41.69, req.TotalAmount)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "1", req.Items[0].Product.String())
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "burger.jpg", req.Items[0].Image)

	assert.True(t, f.cart.IsEmpty())
	raw, _ := f.kv.Value(storage.KeyCart)
	assert.JSONEq(t, `[]`, raw)
	assert.Contains(t, f.publisher.EventTypes(), EventOrderPlaced)
}

func TestService_Checkout_RequiresLogin(t *testing.T) {
	f := newFixture(t, false)
	f.fillCart(t)

	_, err := f.service.Checkout(context.Background(), "")

	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.ErrorIs(t, err, apperror.ErrAuthentication)
	assert.Empty(t, f.placer.requests)
	assert.Equal(t, 3, f.cart.Count())
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.service.Checkout(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, "Your cart is empty", apperror.Message(err))
	assert.Empty(t, f.placer.requests)
}

func TestService_Checkout_RejectedCredentialExpiresSession(t *testing.T) {
	f := newFixture(t, true)
	f.fillCart(t)
	f.placer.err = &apperror.Error{Kind: apperror.KindAuthentication, Message: "Invalid token", Status: 401}

	_, err := f.service.Checkout(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, apperror.ErrAuthentication)
	assert.Equal(t, SessionExpiredMessage, apperror.Message(err))

	assert.Equal(t, session.Unauthenticated, f.session.State())
	_, hasToken := f.kv.Value(storage.KeyToken)
	_, hasUser := f.kv.Value(storage.KeyUser)
	assert.False(t, hasToken)
	assert.False(t, hasUser)
	assert.Equal(t, 3, f.cart.Count(), "cart survives so the user can retry after login")
	assert.Contains(t, f.publisher.EventTypes(), EventCheckoutFailed)
}

func TestService_Checkout_OtherErrorsSurfaceUnchanged(t *testing.T) {
	f := newFixture(t, true)
	f.fillCart(t)
	cause := apperror.Validation("Product 3 is no longer available")
	f.placer.err = cause

	_, err := f.service.Checkout(context.Background(), "credit_card")

	assert.Same(t, cause, err)
	assert.Equal(t, session.Authenticated, f.session.State())
	assert.Equal(t, 3, f.cart.Count())
}

func TestService_Checkout_CommunicationFailureKeepsSession(t *testing.T) {
	f := newFixture(t, true)
	f.fillCart(t)
	f.placer.err = apperror.Communication("", errors.New("connection reset"))

	_, err := f.service.Checkout(context.Background(), "")

	assert.ErrorIs(t, err, apperror.ErrCommunication)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, session.Authenticated, f.session.State())
}

func TestService_Quote(t *testing.T) {
	f := newFixture(t, true)
	f.fillCart(t)

	assert.Equal(t, Totals{Subtotal: 33.97, DeliveryFee: 5, Tax: 2.72, Total: 41.69}, f.service.Quote())
}

var (
	_ Session = (*session.Store)(nil)
	_ Cart    = (*cart.Store)(nil)
)
