package product

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
)

// Product is a catalog record as served by the collaborator
type Product struct {
	ID              ident.ID         `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           money.Amount     `json:"price"`
	Image           string           `json:"image,omitempty"`
	Category        string           `json:"category,omitempty"`
	Ingredients     []string         `json:"ingredients,omitempty"`
	FullDescription string           `json:"fullDescription,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
	IsFeatured      bool             `json:"isFeatured"`
}

type NutritionalInfo struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// UnmarshalJSON falls back to "_id" when "id" is absent
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		MongoID ident.ID `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID.IsZero() {
		p.ID = aux.MongoID
	}
	return nil
}

// Validate checks a product before it is sent for creation
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.Validation("Product name is required")
	}
	if p.Price <= 0 {
		return apperror.Validation("Price must be greater than zero")
	}
	return nil
}

// Patch is a partial update; nil fields are left unchanged
type Patch struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *money.Amount    `json:"price,omitempty"`
	Image           *string          `json:"image,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Ingredients     []string         `json:"ingredients,omitempty"`
	FullDescription *string          `json:"fullDescription,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
}

func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperror.Validation("Product name is required")
	}
	if p.Price != nil && *p.Price <= 0 {
		return apperror.Validation("Price must be greater than zero")
	}
	return nil
}

// Apply returns p with the patch applied
func (p Patch) Apply(to Product) Product {
	if p.Name != nil {
		to.Name = *p.Name
	}
	if p.Description != nil {
		to.Description = *p.Description
	}
	if p.Price != nil {
		to.Price = *p.Price
	}
	if p.Image != nil {
		to.Image = *p.Image
	}
	if p.Category != nil {
		to.Category = *p.Category
	}
	if p.Ingredients != nil {
		to.Ingredients = p.Ingredients
	}
	if p.FullDescription != nil {
		to.FullDescription = *p.FullDescription
	}
	if p.NutritionalInfo != nil {
		to.NutritionalInfo = p.NutritionalInfo
	}
	return to
}

// Query holds the optional list filters of GET /products
type Query struct {
	Limit    int
	Sort     string
	Category string
	Search   string
}

// Values encodes only the filters that are set
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}
