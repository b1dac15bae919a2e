package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/event"
)

// Sender delivers the order confirmation mail
type Sender interface {
	SendOrderConfirmation(ctx context.Context, to string, o order.Order) error
}

// Handler mails a confirmation for every OrderPlaced event. The client and
// the collaborator both announce an order, so each order id is mailed once.
type Handler struct {
	sender Sender

	mu   sync.Mutex
	sent map[string]struct{}
}

func NewHandler(sender Sender) *Handler {
	return &Handler{
		sender: sender,
		sent:   make(map[string]struct{}),
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, e event.Event) error {
	// Only process OrderPlaced events
	if e.EventType != order.EventOrderPlaced {
		return nil
	}

	var placed order.OrderPlaced
	if err := json.Unmarshal(e.Data, &placed); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}
	if placed.Email == "" {
		log.Printf("[Notifier] Order %s has no recipient, skipping", placed.OrderID)
		return nil
	}

	h.mu.Lock()
	if _, done := h.sent[placed.OrderID]; done {
		h.mu.Unlock()
		return nil
	}
	h.sent[placed.OrderID] = struct{}{}
	h.mu.Unlock()

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, user %s", placed.OrderID, placed.UserID)

	if err := h.sender.SendOrderConfirmation(ctx, placed.Email, toOrder(placed)); err != nil {
		h.mu.Lock()
		delete(h.sent, placed.OrderID)
		h.mu.Unlock()
		log.Printf("[Notifier] Failed to send email to %s: %v", placed.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", placed.Email, placed.OrderID)
	return nil
}

func toOrder(e order.OrderPlaced) order.Order {
	placedAt := e.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	return order.Order{
		ID:              ident.ID(e.OrderID),
		UserID:          ident.ID(e.UserID),
		Items:           e.Items,
		TotalAmount:     money.Amount(e.Total),
		ShippingAddress: e.Address,
		PaymentMethod:   e.PaymentMethod,
		Status:          "pending",
		CreatedAt:       placedAt,
	}
}
