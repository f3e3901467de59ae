package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/novhub/pkg/metrics"
)

const defaultRedisRetries = 8

// RedisStore is a KeyValueStore over Redis. Update is an optimistic
// WATCH/MULTI/EXEC transaction retried on conflict.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key as prefix:key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisStore) {
		r.prefix = prefix
	}
}

// WithMaxRetries bounds how often a conflicting Update is retried.
func WithMaxRetries(n int) RedisOption {
	return func(r *RedisStore) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	r := &RedisStore{client: client, maxRetries: defaultRedisRetries}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %w", ErrStorage, addr, err)
	}
	return NewRedisStore(client, opts...), nil
}

func (r *RedisStore) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, observe("get", start, nil)
	}
	if err != nil {
		return "", false, observe("get", start, err)
	}
	return v, true, observe("get", start, nil)
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	return observe("set", start, r.client.Set(ctx, r.key(key), value, 0).Err())
}

func (r *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	start := time.Now()
	k := r.key(key)

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, k).Result()
		exists := true
		if errors.Is(err, redis.Nil) {
			exists = false
		} else if err != nil {
			return err
		}
		next, err := fn(cur, exists)
		if err != nil {
			return abortError{err}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			metrics.RecordStoreConflict()
			continue
		}
		return observe("update", start, err)
	}
	return observe("update", start, ErrConflict)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
