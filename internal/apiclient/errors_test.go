package apiclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodyham/internal/apperror"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		wantMsg  string
	}{
		{"bad request with message", http.StatusBadRequest, `{"success":false,"message":"Email already registered"}`, apperror.ErrValidation, "Email already registered"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":"name is required"}`, apperror.ErrValidation, "name is required"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Token expired"}`, apperror.ErrAuthentication, "Token expired"},
		{"unauthorized without body", http.StatusUnauthorized, ``, apperror.ErrAuthentication, "Authentication required"},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"Admin access required"}}`, apperror.ErrAuthorization, "Admin access required"},
		{"not found", http.StatusNotFound, `<html>nope</html>`, apperror.ErrNotFound, "Not found"},
		{"server error", http.StatusInternalServerError, `{"message":"Database unavailable"}`, apperror.ErrCommunication, "Database unavailable"},
		{"bad gateway without body", http.StatusBadGateway, ``, apperror.ErrCommunication, apperror.DefaultCommunicationMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.status, []byte(tt.body))

			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

// ============================================
// Bearer Transport Tests
// ============================================

type captureTransport struct {
	requests []*http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests = append(c.requests, req)
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestBearerTransport(t *testing.T) {
	tests := []struct {
		name       string
		tokens     TokenSource
		wantHeader string
	}{
		{"no source", nil, ""},
		{"signed out", TokenFunc(func() string { return "" }), ""},
		{"undefined literal", TokenFunc(func() string { return "undefined" }), ""},
		{"signed in", TokenFunc(func() string { return "abc.def.ghi" }), "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &captureTransport{}
			rt := NewBearerTransport(base, tt.tokens)
			req := httptest.NewRequest(http.MethodGet, "http://stub/api/products", nil)

			resp, err := rt.RoundTrip(req)
			require.NoError(t, err)
			resp.Body.Close()

			require.Len(t, base.requests, 1)
			assert.Equal(t, tt.wantHeader, base.requests[0].Header.Get("Authorization"))
			assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be mutated")
		})
	}
}
