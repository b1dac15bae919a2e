package apiclient

import (
	"net/http"

	"github.com/example/foodyham/internal/domain/user"
)

// TokenSource yields the current bearer token, "" when signed out
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// bearerTransport attaches the session token to every outgoing request.
// Requests go out unauthenticated when the token is empty or the
// "undefined" literal.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

// NewBearerTransport wraps base (http.DefaultTransport when nil)
func NewBearerTransport(base http.RoundTripper, tokens TokenSource) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, tokens: tokens}
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil {
		return t.base.RoundTrip(req)
	}
	token := t.tokens.Token()
	if token == "" || token == user.UndefinedToken {
		return t.base.RoundTrip(req)
	}
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}
