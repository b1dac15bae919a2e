package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("POST /auth/login", 200, 20*time.Millisecond)
	m.ObserveRequest("POST /auth/login", 401, 5*time.Millisecond)
	m.ObserveRequest("POST /auth/login", 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST /auth/login", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST /auth/login", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST /auth/login", "error")))
}

func TestMetrics_Counters(t *testing.T) {
	m := New(WithNamespace("test"))

	m.CartMutation("add")
	m.CartMutation("add")
	m.StorageError("write")
	m.SessionTransition("authenticated")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storageErrors.WithLabelValues("write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionTransitions.WithLabelValues("authenticated")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET /products", 200, time.Millisecond)
		m.StorageError("read")
		m.CartMutation("clear")
		m.SessionTransition("unauthenticated")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CartMutation("add")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `foodyham_cart_mutations_total{op="add"} 1`)
}
