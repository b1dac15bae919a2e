// Package apiclient is the HTTP client for the Catalog/Auth collaborator.
//
// Every call returns errors from the apperror taxonomy: transport failures
// become communication errors and HTTP statuses are classified by
// translate. Each request carries an X-Request-ID, is traced with
// OpenTelemetry and is counted in the request metrics.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/metrics"
)

const (
	DefaultTimeout  = 15 * time.Second
	RequestIDHeader = "X-Request-ID"
	tracerName      = "github.com/example/foodyham/internal/apiclient"
	maxBodyBytes    = 4 << 20
)

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	tracer  trace.Tracer
	metrics *metrics.Metrics
	logger  *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is wrapped
// with the bearer interceptor.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource attaches a bearer token to every request
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the collaborator rooted at baseURL, e.g.
// http://localhost:3000/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tracer:  otel.Tracer(tracerName),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	wrapped := *c.http
	wrapped.Transport = NewBearerTransport(c.http.Transport, c.tokens)
	c.http = &wrapped
	return c
}

// BaseURL returns the collaborator root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the collaborator's response wrapper
type envelope struct {
	Success   *bool           `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Analytics json.RawMessage `json:"analytics"`
	Token     string          `json:"token"`
}

// do performs one collaborator call. endpoint is a low-cardinality name
// used for spans and metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body any) (envelope, error) {
	ctx, span := c.tracer.Start(ctx, "foodyham.api."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("foodyham.endpoint", endpoint),
		),
	)
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	span.SetAttributes(attribute.String("foodyham.request_id", requestID))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Printf("[API] %s %s failed (request %s): %v", method, path, requestID, err)
		return envelope{}, apperror.Communication("", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failure")
		return envelope{}, apperror.Communication("", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := translate(resp.StatusCode, data)
		span.SetStatus(codes.Error, apiErr.Message)
		return envelope{}, apiErr
	}

	var env envelope
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			span.RecordError(err)
			return envelope{}, apperror.Communication("Unexpected response from server", err)
		}
	}
	if env.Success != nil && !*env.Success {
		msg := orDefault(env.Message, "Request failed")
		span.SetStatus(codes.Error, msg)
		return envelope{}, apperror.Communication(msg, fmt.Errorf("%s reported success=false", endpoint))
	}
	return env, nil
}

// decode unmarshals a payload section of the envelope into out
func decode(endpoint string, raw json.RawMessage, out any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return apperror.Communication("Unexpected response from server", fmt.Errorf("%s: empty payload", endpoint))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Communication("Unexpected response from server", fmt.Errorf("%s: %w", endpoint, err))
	}
	return nil
}
