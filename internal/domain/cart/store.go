package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/event"
	"github.com/example/foodyham/internal/infrastructure/storage"
	"github.com/example/foodyham/internal/metrics"
)

const AggregateType = "Cart"

var (
	ErrInvalidQuantity = apperror.Validation("Quantity must be at least 1")
	ErrInvalidProduct  = apperror.Validation("Product id is required")
)

// LineItem is one product-quantity pairing. JSON keys match the snapshot
// layout written by the web front end.
type LineItem struct {
	ProductID   ident.ID     `json:"id"`
	Name        string       `json:"name"`
	ImageURL    string       `json:"image,omitempty"`
	Description string       `json:"description,omitempty"`
	UnitPrice   money.Amount `json:"price"`
	Quantity    int          `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity
func (li LineItem) Subtotal() float64 {
	return float64(li.UnitPrice) * float64(li.Quantity)
}

// Store is the authoritative in-memory cart mirrored write-through to
// durable storage. At most one line exists per product and every line has
// a quantity of at least one.
type Store struct {
	mu          sync.Mutex
	kv          storage.KV
	items       []LineItem
	initialized bool

	cartID    string
	publisher event.Publisher
	logger    *log.Logger
	metrics   *metrics.Metrics
}

// Option configures a Store
type Option func(*Store)

// WithPublisher emits cart events to p
func WithPublisher(p event.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithCartID sets the aggregate id used on emitted events (default "cart")
func WithCartID(id string) Option {
	return func(s *Store) { s.cartID = id }
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		cartID: "cart",
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted snapshot once. A missing snapshot is an
// empty cart. An unreadable or corrupt snapshot is logged, replaced with an
// empty cart and never reported to the caller.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	recovered := s.initLocked(ctx)
	s.mu.Unlock()

	if recovered != "" {
		s.publish(ctx, EventCartRecovered, CartRecovered{
			CartID:      s.cartID,
			Reason:      recovered,
			RecoveredAt: time.Now(),
		})
	}
}

// initLocked returns a non-empty reason when corrupt state was discarded
func (s *Store) initLocked(ctx context.Context) string {
	if s.initialized {
		return ""
	}
	s.initialized = true
	s.items = make([]LineItem, 0)

	raw, ok, err := s.kv.Get(ctx, storage.KeyCart)
	if err != nil {
		s.metrics.StorageError("cart_read")
		s.logger.Printf("[Cart] Failed to read persisted cart, starting empty: %v", err)
		return ""
	}
	if !ok || raw == "" {
		return ""
	}

	items, dropped, err := decodeSnapshot([]byte(raw))
	if err != nil {
		s.logger.Printf("[Cart] Corrupt cart snapshot discarded: %v", err)
		s.persistLocked(ctx)
		return err.Error()
	}
	s.items = items
	if dropped > 0 {
		s.logger.Printf("[Cart] Dropped %d invalid line items from persisted cart", dropped)
		s.persistLocked(ctx)
	}
	return ""
}

// decodeSnapshot parses a persisted cart, normalizing prices and restoring
// the one-line-per-product and positive-quantity invariants
func decodeSnapshot(data []byte) ([]LineItem, int, error) {
	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	items := make([]LineItem, 0, len(raw))
	index := make(map[ident.ID]int, len(raw))
	dropped := 0
	for _, item := range raw {
		if item.ProductID.IsZero() || item.Quantity < 1 {
			dropped++
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			items[i].Quantity += item.Quantity
			dropped++
			continue
		}
		index[item.ProductID] = len(items)
		items = append(items, item)
	}
	return items, dropped, nil
}

// AddItem merges quantity into the line for p, appending a new line when
// none exists. quantity must be at least 1.
func (s *Store) AddItem(ctx context.Context, p product.Product, quantity int) error {
	if p.ID.IsZero() {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	price, err := money.Parse(p.Price)
	if err != nil {
		return apperror.Validation(fmt.Sprintf("Invalid price for %s", p.Name))
	}

	s.mu.Lock()
	s.initLocked(ctx)
	found := false
	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, LineItem{
			ProductID:   p.ID,
			Name:        p.Name,
			ImageURL:    p.Image,
			Description: p.Description,
			UnitPrice:   price,
			Quantity:    quantity,
		})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.CartMutation("add")
	s.publish(ctx, EventItemAdded, ItemAddedToCart{
		CartID:    s.cartID,
		ProductID: p.ID.String(),
		Quantity:  quantity,
		UnitPrice: price.Float64(),
		AddedAt:   time.Now(),
	})
	return nil
}

// RemoveItem deletes the line for id; absent ids are a no-op
func (s *Store) RemoveItem(ctx context.Context, id ident.ID) {
	s.mu.Lock()
	s.initLocked(ctx)
	removed := false
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if removed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	s.metrics.CartMutation("remove")
	s.publish(ctx, EventItemRemoved, ItemRemovedFromCart{
		CartID:    s.cartID,
		ProductID: id.String(),
		RemovedAt: time.Now(),
	})
}

// SetQuantity overwrites the quantity of the line for id. A quantity below
// one removes the line.
func (s *Store) SetQuantity(ctx context.Context, id ident.ID, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	s.initLocked(ctx)
	changed := false
	for i := range s.items {
		if s.items[i].ProductID == id {
			changed = s.items[i].Quantity != quantity
			s.items[i].Quantity = quantity
			break
		}
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.metrics.CartMutation("set_quantity")
	s.publish(ctx, EventQuantityChanged, CartItemQuantityChanged{
		CartID:    s.cartID,
		ProductID: id.String(),
		Quantity:  quantity,
		ChangedAt: time.Now(),
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.initLocked(ctx)
	s.items = make([]LineItem, 0)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.CartMutation("clear")
	s.publish(ctx, EventCartCleared, CartCleared{
		CartID:    s.cartID,
		ClearedAt: time.Now(),
	})
}

// Total returns the sum of UnitPrice × Quantity rounded to cents
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return money.Round2(total)
}

// Count returns the sum of quantities
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// persistLocked rewrites the full snapshot. Storage is a best-effort mirror,
// so failures are logged and counted, never returned.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Printf("[Cart] Failed to encode cart snapshot: %v", err)
		return
	}
	if err := s.kv.Set(ctx, storage.KeyCart, string(data)); err != nil {
		s.metrics.StorageError("cart_write")
		s.logger.Printf("[Cart] Failed to persist cart: %v", err)
	}
}

func (s *Store) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	e, err := event.New(s.cartID, AggregateType, eventType, data)
	if err != nil {
		s.logger.Printf("[Cart] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, s.cartID, e); err != nil {
		s.logger.Printf("[Cart] Failed to publish %s: %v", eventType, err)
	}
}
