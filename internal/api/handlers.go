package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/foodyham/internal/api/middleware"
	"github.com/example/foodyham/internal/domain/feedback"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/event"
)

const defaultAnalyticsPeriod = 30

// Notifier sends the order confirmation mail
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, to string, o order.Order) error
}

type Handlers struct {
	repo      *Repository
	publisher event.Publisher
	notifier  Notifier
}

// NewHandlers wires the catalog, order, analytics and feedback handlers.
// publisher and notifier may be nil.
func NewHandlers(repo *Repository, publisher event.Publisher, notifier Notifier) *Handlers {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &Handlers{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := product.Query{
		Sort:     r.URL.Query().Get("sort"),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		q.Limit = limit
	}

	products := h.repo.ListProducts(q)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.repo.Product(productID(r))
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondData(w, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := decodeBody(r, &p); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created := h.repo.CreateProduct(p)
	h.publish(r.Context(), created.ID.String(), product.AggregateType, product.EventProductCreated, product.ProductCreated{
		ProductID: created.ID.String(),
		Name:      created.Name,
		Price:     created.Price.Float64(),
		Category:  created.Category,
		CreatedAt: time.Now(),
	})
	respondData(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch product.Patch
	if err := decodeBody(r, &patch); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := patch.Validate(); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateProduct(productID(r), patch)
	if errors.Is(err, ErrProductNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	h.publish(r.Context(), updated.ID.String(), product.AggregateType, product.EventProductUpdated, product.ProductUpdated{
		ProductID: updated.ID.String(),
		Name:      updated.Name,
		Price:     updated.Price.Float64(),
		UpdatedAt: time.Now(),
	})
	respondData(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	if err := h.repo.DeleteProduct(id); errors.Is(err, ErrProductNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	h.publish(r.Context(), id.String(), product.AggregateType, product.EventProductDeleted, product.ProductDeleted{
		ProductID: id.String(),
		DeletedAt: time.Now(),
	})
	respondMessage(w, http.StatusOK, "Product deleted")
}

func (h *Handlers) FeatureProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsFeatured bool `json:"isFeatured"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.SetFeatured(productID(r), req.IsFeatured)
	if errors.Is(err, ErrProductNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	h.publish(r.Context(), updated.ID.String(), product.AggregateType, product.EventProductFeatureToggled, product.ProductFeatureToggled{
		ProductID:  updated.ID.String(),
		IsFeatured: updated.IsFeatured,
		ToggledAt:  time.Now(),
	})
	respondData(w, http.StatusOK, updated)
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req order.Request
	if err := decodeBody(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		respondJSONError(w, "Order must contain at least one item", http.StatusBadRequest)
		return
	}

	var subtotal float64
	for i, item := range req.Items {
		if item.Quantity < 1 {
			respondJSONError(w, "Item quantities must be at least 1", http.StatusBadRequest)
			return
		}
		p, ok := h.repo.Product(item.Product)
		if !ok {
			respondJSONError(w, fmt.Sprintf("Product %s is no longer available", item.Product), http.StatusBadRequest)
			return
		}
		if item.Name == "" {
			req.Items[i].Name = p.Name
		}
		subtotal += item.Price.Float64() * float64(item.Quantity)
	}
	if expected := order.ComputeTotals(subtotal).Total; math.Abs(expected-req.TotalAmount) > 0.01 {
		respondJSONError(w, fmt.Sprintf("Order total %.2f does not match expected %.2f", req.TotalAmount, expected), http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = order.DefaultPaymentMethod
	}

	claims, _ := middleware.GetUserFromContext(r.Context())
	placed := h.repo.CreateOrder(ident.ID(claims.UserID), req)
	log.Printf("[StubAPI] Order %s placed by %s: %.2f", placed.ID, claims.Email, placed.TotalAmount.Float64())

	h.publish(r.Context(), placed.ID.String(), order.AggregateType, order.EventOrderPlaced, order.OrderPlaced{
		OrderID:       placed.ID.String(),
		UserID:        claims.UserID,
		Email:         claims.Email,
		Items:         placed.Items,
		Subtotal:      subtotal,
		Total:         placed.TotalAmount.Float64(),
		PaymentMethod: placed.PaymentMethod,
		Address:       placed.ShippingAddress,
		PlacedAt:      placed.CreatedAt,
	})
	h.sendConfirmation(claims.Email, placed)

	respondData(w, http.StatusCreated, placed)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.repo.OrdersFor(ident.ID(middleware.GetUserID(r.Context())))
	respondData(w, http.StatusOK, orders)
}

// sendConfirmation mails the receipt without holding up the response
func (h *Handlers) sendConfirmation(to string, placed order.Order) {
	if h.notifier == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.notifier.SendOrderConfirmation(ctx, to, placed); err != nil {
			log.Printf("[StubAPI] Failed to send confirmation for order %s: %v", placed.ID, err)
		}
	}()
}

// Admin Handlers

func (h *Handlers) GetSalesAnalytics(w http.ResponseWriter, r *http.Request) {
	period := defaultAnalyticsPeriod
	if raw := r.URL.Query().Get("period"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			respondJSONError(w, "period must be a positive number of days", http.StatusBadRequest)
			return
		}
		period = days
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"period":    period,
		"analytics": h.repo.SalesAnalytics(period, time.Now()),
	})
}

// Feedback Handlers

func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var f feedback.Feedback
	if err := decodeBody(r, &f); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.repo.AddFeedback(f)
	respondMessage(w, http.StatusCreated, "Thank you! Your feedback has been successfully submitted.")
}

// Helper functions

func productID(r *http.Request) ident.ID {
	return ident.ID(chi.URLParam(r, "id"))
}

func (h *Handlers) publish(ctx context.Context, key, aggregateType, eventType string, data any) {
	e, err := event.New(key, aggregateType, eventType, data)
	if err != nil {
		log.Printf("[StubAPI] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := h.publisher.Publish(ctx, key, e); err != nil {
		log.Printf("[StubAPI] Failed to publish %s: %v", eventType, err)
	}
}
