package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	err     error
	closed  bool
	delKeys [][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delKeys = append(f.delKeys, keys)
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
			delete(f.values, k)
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStore_NamespacedKeys(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore(client, "alice")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyToken, "tok"))

	assert.Equal(t, "tok", client.values["foodyham:alice:token"])
	v, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestRedisStore_MissingKey(t *testing.T) {
	s := NewRedisStore(newFakeRedis(), "alice")

	_, ok, err := s.Get(context.Background(), KeyUser)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_BackendError(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection reset")
	s := NewRedisStore(client, "alice")

	_, _, err := s.Get(context.Background(), KeyUser)
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), KeyUser, "{}"))
}

func TestRedisStore_TTL(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore(client, "bob", WithRedisTTL(24*time.Hour))

	require.NoError(t, s.Set(context.Background(), KeyCart, "[]"))

	assert.Equal(t, 24*time.Hour, client.ttls["foodyham:bob:cart"])
}

func TestRedisStore_DeleteAndClose(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore(client, "bob")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyToken, "tok"))
	require.NoError(t, s.Delete(ctx, KeyToken, KeyUser))
	assert.Equal(t, []string{"foodyham:bob:token", "foodyham:bob:user"}, client.delKeys[0])

	require.NoError(t, s.Delete(ctx))
	assert.Len(t, client.delKeys, 1)

	require.NoError(t, s.Close())
	assert.True(t, client.closed)
	_, _, err := s.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrStoreClosed)
}
