package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/cache"
)

// Reference returns slowly-changing lookup data by key, consulting the
// reference cache before calling fetch. Cache trouble of any kind — read
// failure, corrupt payload, write failure — degrades to fetching and is
// logged, never surfaced: the cache is an optimization, fetch errors are
// the only errors a page sees.
//
// Values must be JSON-serializable; an unserializable value is returned
// to the caller but skips the cache.
func Reference[T any](ctx context.Context, c *Client, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.ref.Get(ctx, key)
	if err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		// Corrupt payload: purge and fall through to a fresh fetch.
		if err := c.ref.Delete(ctx, key); err != nil {
			c.log.WarnContext(ctx, "could not purge corrupt reference entry",
				slog.String("key", key), slog.Any("error", err))
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		c.log.WarnContext(ctx, "reference cache read failed",
			slog.String("key", key), slog.Any("error", err))
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(v); err != nil {
		c.log.WarnContext(ctx, "reference value is not cacheable",
			slog.String("key", key), slog.Any("error", err))
	} else if err := c.ref.Set(ctx, key, raw, 0); err != nil {
		c.log.WarnContext(ctx, "reference cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}

	return v, nil
}

// InvalidateReference drops one cached reference entry.
func (c *Client) InvalidateReference(ctx context.Context, key string) {
	if err := c.ref.Delete(ctx, key); err != nil {
		c.log.WarnContext(ctx, "reference invalidation failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

// InvalidateAllReferences drops every cached reference entry. With a
// shared backend this clears broadly, not per key prefix owned by one
// page — reserve it for logout.
func (c *Client) InvalidateAllReferences(ctx context.Context) {
	if err := c.ref.Clear(ctx); err != nil {
		c.log.WarnContext(ctx, "reference cache clear failed", slog.Any("error", err))
	}
}
