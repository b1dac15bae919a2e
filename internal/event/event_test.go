package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	payload := map[string]any{"product_id": "1", "quantity": 2}

	e, err := New("cart", "Cart", "ItemAddedToCart", payload)

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "cart", e.AggregateID)
	assert.Equal(t, "Cart", e.AggregateType)
	assert.Equal(t, "ItemAddedToCart", e.EventType)
	assert.False(t, e.Timestamp.IsZero())
	assert.JSONEq(t, `{"product_id":"1","quantity":2}`, string(e.Data))
}

func TestNew_UniqueIDs(t *testing.T) {
	a, err := New("cart", "Cart", "CartCleared", struct{}{})
	require.NoError(t, err)
	b, err := New("cart", "Cart", "CartCleared", struct{}{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNew_UnmarshalableData(t *testing.T) {
	_, err := New("cart", "Cart", "Bad", make(chan int))
	assert.Error(t, err)
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	e, err := New("user-1", "User", "UserLoggedIn", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, e.ID, restored.ID)
	assert.Equal(t, e.EventType, restored.EventType)
	assert.JSONEq(t, string(e.Data), string(restored.Data))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "k", Event{}))
}
