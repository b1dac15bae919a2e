package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/foodyham/internal/domain/feedback"
	"github.com/example/foodyham/internal/domain/order"
)

// PlaceOrder calls POST /orders
func (c *Client) PlaceOrder(ctx context.Context, req order.Request) (order.Order, error) {
	env, err := c.do(ctx, "orders_create", http.MethodPost, "/orders", nil, req)
	if err != nil {
		return order.Order{}, err
	}
	var placed order.Order
	if err := decode("orders_create", env.Data, &placed); err != nil {
		return order.Order{}, err
	}
	return placed, nil
}

// SalesAnalytics calls GET /analytics/sales?period=N. Admin only.
func (c *Client) SalesAnalytics(ctx context.Context, periodDays int) (order.SalesAnalytics, error) {
	q := url.Values{}
	if periodDays > 0 {
		q.Set("period", strconv.Itoa(periodDays))
	}
	env, err := c.do(ctx, "analytics_sales", http.MethodGet, "/analytics/sales", q, nil)
	if err != nil {
		return order.SalesAnalytics{}, err
	}
	raw := env.Analytics
	if len(raw) == 0 {
		raw = env.Data
	}
	var analytics order.SalesAnalytics
	if err := decode("analytics_sales", raw, &analytics); err != nil {
		return order.SalesAnalytics{}, err
	}
	return analytics, nil
}

// SubmitFeedback calls POST /feedback
func (c *Client) SubmitFeedback(ctx context.Context, f feedback.Feedback) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, "feedback_create", http.MethodPost, "/feedback", nil, f)
	return err
}
