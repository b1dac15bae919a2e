package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/product"
)

// ListProducts calls GET /products with the filters in q
func (c *Client) ListProducts(ctx context.Context, q product.Query) ([]product.Product, error) {
	env, err := c.do(ctx, "products_list", http.MethodGet, "/products", q.Values(), nil)
	if err != nil {
		return nil, err
	}
	var products []product.Product
	if err := decode("products_list", env.Data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct calls GET /products/:id
func (c *Client) GetProduct(ctx context.Context, id ident.ID) (product.Product, error) {
	env, err := c.do(ctx, "products_get", http.MethodGet, "/products/"+url.PathEscape(id.String()), nil, nil)
	if err != nil {
		return product.Product{}, err
	}
	var p product.Product
	if err := decode("products_get", env.Data, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// CreateProduct calls POST /products. Admin only.
func (c *Client) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}
	env, err := c.do(ctx, "products_create", http.MethodPost, "/products", nil, p)
	if err != nil {
		return product.Product{}, err
	}
	var created product.Product
	if err := decode("products_create", env.Data, &created); err != nil {
		return product.Product{}, err
	}
	return created, nil
}

// UpdateProduct calls PUT /products/:id. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, id ident.ID, patch product.Patch) (product.Product, error) {
	if err := patch.Validate(); err != nil {
		return product.Product{}, err
	}
	env, err := c.do(ctx, "products_update", http.MethodPut, "/products/"+url.PathEscape(id.String()), nil, patch)
	if err != nil {
		return product.Product{}, err
	}
	var updated product.Product
	if err := decode("products_update", env.Data, &updated); err != nil {
		return product.Product{}, err
	}
	return updated, nil
}

// DeleteProduct calls DELETE /products/:id. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, id ident.ID) error {
	_, err := c.do(ctx, "products_delete", http.MethodDelete, "/products/"+url.PathEscape(id.String()), nil, nil)
	return err
}

// SetFeatured calls PUT /products/feature/:id. Admin only.
func (c *Client) SetFeatured(ctx context.Context, id ident.ID, featured bool) error {
	_, err := c.do(ctx, "products_feature", http.MethodPut, "/products/feature/"+url.PathEscape(id.String()), nil, map[string]bool{
		"isFeatured": featured,
	})
	return err
}
