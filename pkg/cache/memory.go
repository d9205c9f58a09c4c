package cache

import (
	"context"
	"sync"
	"time"
)

// memEntry holds a cached value with its write time and resolved lifetime.
type memEntry[V any] struct {
	storedAt time.Time
	ttl      time.Duration // <0 = never expires
	value    V
}

// Memory is an in-memory cache with lazy, read-time expiration.
//
// There is no background sweeper: an expired entry is purged by the next
// Get or Has that touches it. Entry counts here are small (lookup lists
// for a single dashboard session), so leaving expired entries in place
// until the next read costs nothing and saves a goroutine.
type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]memEntry[V]
	opts  *memoryOptions
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL time.Duration
	now        func() time.Time
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
}

// WithDefaultTTL sets the expiration applied when Set is called with a
// zero TTL. Default: DefaultTTL (10 minutes).
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithNow overrides the clock used for expiry checks.
// Intended for tests; defaults to time.Now.
func WithNow(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[[]Branch](cache.WithDefaultTTL(10 * time.Minute))
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Memory[V]{
		items: make(map[string]memEntry[V]),
		opts:  o,
	}
}

// expired reports whether the entry is past its lifetime at the given time.
// An entry written at T with ttl D is still readable at exactly T+D.
func (e memEntry[V]) expired(now time.Time) bool {
	if e.ttl < 0 {
		return false
	}
	return now.After(e.storedAt.Add(e.ttl))
}

// Get retrieves a value by key. An entry past its TTL is removed and
// reported as ErrNotFound.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	if e.expired(m.opts.now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}

	return e.value, nil
}

// Set stores a value with the given TTL, overwriting unconditionally.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	m.items[key] = memEntry[V]{
		storedAt: m.opts.now(),
		ttl:      ttl,
		value:    value,
	}

	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Has checks whether a key exists and has not expired.
// Like Get, it purges an expired entry it finds.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return false, nil
	}

	if e.expired(m.opts.now()) {
		delete(m.items, key)
		return false, nil
	}

	return true, nil
}

// Clear removes all entries.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]memEntry[V])
	return nil
}

// Len reports the number of stored entries, expired or not.
// Expired entries linger until a read touches them.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

var _ Cache[any] = (*Memory[any])(nil)
