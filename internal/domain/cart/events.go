package cart

import "time"

const (
	EventItemAdded       = "ItemAddedToCart"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventQuantityChanged = "CartItemQuantityChanged"
	EventCartCleared     = "CartCleared"
	EventCartRecovered   = "CartRecovered"
)

type ItemAddedToCart struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	AddedAt   time.Time `json:"added_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartItemQuantityChanged struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

// CartRecovered is emitted when a corrupt persisted snapshot is discarded
type CartRecovered struct {
	CartID      string    `json:"cart_id"`
	Reason      string    `json:"reason"`
	RecoveredAt time.Time `json:"recovered_at"`
}
