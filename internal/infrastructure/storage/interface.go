package storage

import (
	"context"
	"errors"
)

// Keys of the persisted client state. Absence of any key is a valid
// empty or logged-out state.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// ErrStoreClosed is returned when operations are attempted on a closed store
var ErrStoreClosed = errors.New("storage is closed")

// KV is the durable key-value store backing the cart and session stores.
// Get returns ("", false, nil) when the key does not exist; errors are
// reserved for backend failures. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
