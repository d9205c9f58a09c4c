package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by a shared Redis keyspace, for deployments
// where several dashboard processes should share one set of reference
// data. Values are serialized with the configured Marshaler (JSON by
// default); expiry is delegated to Redis TTLs.
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      *redisOptions
	marshaler Marshaler[V]
}

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: DefaultTTL,
	}
}

// WithRedisDefaultTTL sets the expiration applied when Set is called
// with a zero TTL. Default: DefaultTTL (10 minutes).
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix namespaces all keys as "{prefix}:{key}". The keyspace is
// shared: without a prefix, Clear flushes the whole database, including
// entries unrelated to this cache.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// NewRedis creates a Redis-backed cache. Pass a nil Marshaler to use JSON.
//
// Example:
//
//	client, err := redisconn.Open(ctx, os.Getenv("KAACIB_REDIS_URL"))
//	if err != nil { ... }
//	c := cache.NewRedis[[]Branch](client, nil, cache.WithPrefix("kaacib:ref"))
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Redis[V]{
		client:    client,
		opts:      o,
		marshaler: m,
	}
}

// Get retrieves a value by key.
// A missing or expired key returns ErrNotFound; a stored payload that no
// longer unmarshals is purged and reported as ErrNotFound, matching the
// in-memory backend's "corrupt means absent" behavior.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	v, err := r.marshaler.Unmarshal(data)
	if err != nil {
		_ = r.client.Del(ctx, r.prefixed(key)).Err()
		return zero, errors.Join(ErrNotFound, err)
	}

	return v, nil
}

// Set stores a value with the given TTL, overwriting unconditionally.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}

	// Redis treats 0 as "no expiration", which is our negative-TTL semantic.
	return r.client.Set(ctx, r.prefixed(key), data, max(ttl, 0)).Err()
}

// Delete removes a key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixed(key)).Err()
}

// Has checks whether a key exists.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefixed(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes all entries under the configured prefix via SCAN.
// Without a prefix it flushes the whole database — the documented broad
// invalidation, not a per-namespace one.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	pattern := r.opts.prefix + ":*"
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *Redis[V]) prefixed(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var _ Cache[any] = (*Redis[any])(nil)
