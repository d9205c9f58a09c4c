package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for connection setup.
var (
	// ErrEmptyConnectionURL is returned when no URL is supplied.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrConnectionFailed is returned when the server cannot be reached
	// after the configured retries.
	ErrConnectionFailed = errors.New("redis: connection failed")
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	poolSize      int
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
}

func defaultOptions() *options {
	return &options{
		poolSize:      10,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
	}
}

// WithPoolSize sets the maximum number of pooled connections.
// Default: 10.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithRetry configures connection retry behavior.
// Default: 3 attempts, 2 second interval.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
		if interval > 0 {
			o.retryInterval = interval
		}
	}
}

// WithDialTimeout sets the timeout for establishing new connections.
// Default: 5 seconds.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.dialTimeout = d
		}
	}
}

// Open creates a Redis client from a redis:// or rediss:// URL and
// verifies connectivity with a ping, retrying a few times so a cache
// server that is still starting does not fail the dashboard.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid connection URL: %w", err)
	}
	cfg.PoolSize = o.poolSize
	cfg.DialTimeout = o.dialTimeout

	client := redis.NewClient(cfg)

	var pingErr error
	for attempt := 0; attempt < o.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(o.retryInterval):
			}
		}
		if pingErr = client.Ping(ctx).Err(); pingErr == nil {
			return client, nil
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrConnectionFailed, pingErr)
}
