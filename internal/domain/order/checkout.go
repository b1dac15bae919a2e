package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/user"
	"github.com/example/foodyham/internal/event"
)

var (
	ErrLoginRequired = apperror.Authentication("Please login to checkout")
	ErrEmptyCart     = apperror.Validation("Your cart is empty")

	// ErrSessionExpired is matched with errors.Is on the error returned when
	// the collaborator rejected the credential during checkout
	ErrSessionExpired = errors.New("session expired")
)

const SessionExpiredMessage = "Session expired. Please login again."

// Cart is the cart surface checkout reads and clears
type Cart interface {
	Items() []cart.LineItem
	Total() float64
	Clear(ctx context.Context)
}

// Session is the session surface checkout needs
type Session interface {
	Identity() (user.Identity, bool)
	Expire(ctx context.Context)
}

// Placer submits orders to the collaborator
type Placer interface {
	PlaceOrder(ctx context.Context, req Request) (Order, error)
}

// Receipt is the outcome of a successful checkout
type Receipt struct {
	Order  Order
	Totals Totals
}

type Service struct {
	cart      Cart
	session   Session
	api       Placer
	publisher event.Publisher
	logger    *log.Logger
}

type Option func(*Service)

func WithPublisher(p event.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(c Cart, session Session, api Placer, opts ...Option) *Service {
	s := &Service{
		cart:    c,
		session: session,
		api:     api,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the totals for the current cart
func (s *Service) Quote() Totals {
	return ComputeTotals(s.cart.Total())
}

// Checkout places an order for the current cart and clears it on success.
// A credential rejected by the collaborator ends the session.
func (s *Service) Checkout(ctx context.Context, paymentMethod string) (Receipt, error) {
	identity, ok := s.session.Identity()
	if !ok {
		return Receipt{}, ErrLoginRequired
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	totals := ComputeTotals(s.cart.Total())
	req := Request{
		Items:           toOrderItems(items),
		TotalAmount:     totals.Total,
		ShippingAddress: identity.Address,
		PaymentMethod:   paymentMethod,
	}

	placed, err := s.api.PlaceOrder(ctx, req)
	if err != nil {
		s.logger.Printf("[Checkout] Failed to place order for %s: %v", identity.Email, err)
		if errors.Is(err, apperror.ErrAuthentication) {
			s.session.Expire(ctx)
			s.publishFailure(ctx, identity, "session_expired")
			return Receipt{}, &apperror.Error{
				Kind:    apperror.KindAuthentication,
				Message: SessionExpiredMessage,
				Status:  401,
				Err:     fmt.Errorf("%w: %w", ErrSessionExpired, err),
			}
		}
		s.publishFailure(ctx, identity, apperror.Message(err))
		return Receipt{}, err
	}

	s.cart.Clear(ctx)
	s.logger.Printf("[Checkout] Order %s placed for %s: %.2f", placed.ID, identity.Email, totals.Total)

	s.publish(ctx, identity.ID.String(), EventOrderPlaced, OrderPlaced{
		OrderID:       placed.ID.String(),
		UserID:        identity.ID.String(),
		Email:         identity.Email,
		Items:         req.Items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: paymentMethod,
		Address:       req.ShippingAddress,
		PlacedAt:      time.Now(),
	})
	return Receipt{Order: placed, Totals: totals}, nil
}

func toOrderItems(items []cart.LineItem) []Item {
	out := make([]Item, 0, len(items))
	for _, li := range items {
		out = append(out, Item{
			Product:  li.ProductID,
			Name:     li.Name,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
			Image:    li.ImageURL,
		})
	}
	return out
}

func (s *Service) publishFailure(ctx context.Context, identity user.Identity, reason string) {
	s.publish(ctx, identity.ID.String(), EventCheckoutFailed, CheckoutFailed{
		UserID:   identity.ID.String(),
		Reason:   reason,
		FailedAt: time.Now(),
	})
}

func (s *Service) publish(ctx context.Context, key, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	e, err := event.New(key, AggregateType, eventType, data)
	if err != nil {
		s.logger.Printf("[Checkout] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, key, e); err != nil {
		s.logger.Printf("[Checkout] Failed to publish %s: %v", eventType, err)
	}
}
