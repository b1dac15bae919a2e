package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when TEST_DATABASE_URL is set
func TestPostgresStore_Integration(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := ConnectPostgres(connStr)
	require.NoError(t, err)

	s := NewPostgresStore(db, "test-"+uuid.New().String())
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx))

	_, ok, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyCart, "[]"))
	require.NoError(t, s.Set(ctx, KeyCart, `[{"id":"1"}]`))

	v, ok, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Delete(ctx, KeyCart, KeyToken))
	_, ok, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}
