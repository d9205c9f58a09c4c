package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a reference-data entry stays readable.
// Ten minutes suits data that is slow to change but not static
// (branch lists, service catalogues, staff lookups).
const DefaultTTL = 10 * time.Minute

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the cache's default TTL
//   - Negative: entry never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key was never stored or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL, overwriting unconditionally.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key from the cache. Removing a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Clear removes all entries. For shared backends this is a broad
	// operation: everything under the cache's reach goes, not just keys
	// this process wrote. Call sparingly (logout, primarily).
	Clear(ctx context.Context) error
}

// Marshaler serializes cache values for backends that store bytes.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var sfGroup singleflight.Group

type getOrSetResult[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on
// a miss. Concurrent callers with the same key share one fn call
// (singleflight), so a burst of page loads triggers a single fetch.
//
// Any cache read error degrades to a miss, and the result is cached
// best-effort: fn errors are the only errors GetOrSet returns.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := sfGroup.Do(key, func() (any, error) {
		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return getOrSetResult[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	r := v.(getOrSetResult[V])

	_ = c.Set(ctx, key, r.val, r.ttl)

	return r.val, nil
}
