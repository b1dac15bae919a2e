package product

import "time"

const (
	AggregateType = "Product"

	EventProductCreated        = "ProductCreated"
	EventProductUpdated        = "ProductUpdated"
	EventProductDeleted        = "ProductDeleted"
	EventProductFeatureToggled = "ProductFeatureToggled"
)

type ProductCreated struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductUpdated struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type ProductFeatureToggled struct {
	ProductID  string    `json:"product_id"`
	IsFeatured bool      `json:"is_featured"`
	ToggledAt  time.Time `json:"toggled_at"`
}
