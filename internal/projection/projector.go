package projection

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/money"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/domain/user"
	"github.com/example/foodyham/internal/event"
)

// Summary is the running activity read model built from the event stream
type Summary struct {
	Events           int
	ByType           map[string]int
	OrdersPlaced     int
	Revenue          float64
	ItemsAdded       int
	CartsCleared     int
	Logins           int
	Registrations    int
	Logouts          int
	CheckoutFailures int
	Recoveries       int
	CatalogChanges   int
	LastEventAt      time.Time
}

// TypeCount is one row of Summary.Top
type TypeCount struct {
	EventType string
	Count     int
}

// Top returns the n most frequent event types, ties by name
func (s Summary) Top(n int) []TypeCount {
	out := make([]TypeCount, 0, len(s.ByType))
	for t, c := range s.ByType {
		out = append(out, TypeCount{EventType: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EventType < out[j].EventType
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Projector folds storefront events into a Summary
type Projector struct {
	mu      sync.Mutex
	summary Summary
	orders  map[string]struct{}
}

func NewProjector() *Projector {
	return &Projector{
		summary: Summary{ByType: make(map[string]int)},
		orders:  make(map[string]struct{}),
	}
}

// HandleEvent matches kafka.EventHandler
func (p *Projector) HandleEvent(ctx context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.summary.Events++
	p.summary.ByType[e.EventType]++
	if e.Timestamp.After(p.summary.LastEventAt) {
		p.summary.LastEventAt = e.Timestamp
	}

	switch e.AggregateType {
	case cart.AggregateType:
		return p.handleCartEvent(e)
	case user.AggregateType:
		p.handleUserEvent(e)
	case order.AggregateType:
		return p.handleOrderEvent(e)
	case product.AggregateType:
		p.summary.CatalogChanges++
	}
	return nil
}

// Summary returns a copy of the current read model
func (p *Projector) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.summary
	s.ByType = make(map[string]int, len(p.summary.ByType))
	for k, v := range p.summary.ByType {
		s.ByType[k] = v
	}
	return s
}

func (p *Projector) handleCartEvent(e event.Event) error {
	switch e.EventType {
	case cart.EventItemAdded:
		var data cart.ItemAddedToCart
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return err
		}
		p.summary.ItemsAdded += data.Quantity
	case cart.EventCartCleared:
		p.summary.CartsCleared++
	case cart.EventCartRecovered:
		p.summary.Recoveries++
	}
	return nil
}

func (p *Projector) handleUserEvent(e event.Event) {
	switch e.EventType {
	case user.EventUserLoggedIn:
		p.summary.Logins++
	case user.EventUserRegistered:
		p.summary.Registrations++
	case user.EventUserLoggedOut:
		p.summary.Logouts++
	case user.EventSessionRecovered:
		p.summary.Recoveries++
	}
}

func (p *Projector) handleOrderEvent(e event.Event) error {
	switch e.EventType {
	case order.EventOrderPlaced:
		var data order.OrderPlaced
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return err
		}
		// client and collaborator both announce the same order
		if _, seen := p.orders[data.OrderID]; seen {
			return nil
		}
		p.orders[data.OrderID] = struct{}{}
		p.summary.OrdersPlaced++
		p.summary.Revenue = money.Round2(p.summary.Revenue + data.Total)
	case order.EventCheckoutFailed:
		var data order.CheckoutFailed
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return err
		}
		p.summary.CheckoutFailures++
		log.Printf("[Projector] Checkout failed for user %s: %s", data.UserID, data.Reason)
	}
	return nil
}
