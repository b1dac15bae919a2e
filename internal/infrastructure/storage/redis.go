package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client used by RedisStore
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisStore shares client state between processes, keyed by namespace
type RedisStore struct {
	client    redisClient
	namespace string
	ttl       time.Duration
	closed    bool
}

// RedisOption configures RedisStore behavior
type RedisOption func(*RedisStore)

// WithRedisTTL expires every key after d. Zero keeps keys forever.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *RedisStore) {
		r.ttl = d
	}
}

// NewRedisStore wraps client. namespace separates profiles sharing one Redis.
func NewRedisStore(client redisClient, namespace string, opts ...RedisOption) *RedisStore {
	r := &RedisStore{client: client, namespace: namespace}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConnectRedis builds a client from a URL, or from addr when url is empty,
// and verifies it with PING.
func ConnectRedis(ctx context.Context, url, addr, password string) (*redis.Client, error) {
	var opt *redis.Options
	if url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           0,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(k string) string {
	return fmt.Sprintf("foodyham:%s:%s", r.namespace, k)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if r.closed {
		return "", false, ErrStoreClosed
	}
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if r.closed {
		return ErrStoreClosed
	}
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if r.closed {
		return ErrStoreClosed
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}

// Close closes the underlying client
func (r *RedisStore) Close() error {
	r.closed = true
	return r.client.Close()
}
