package credstore

import (
	"context"
	"errors"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// Sentinel errors for credential storage.
var (
	// ErrNotFound is returned by Load when no credentials are persisted.
	// Malformed persisted data is reported the same way: the store clears
	// it and behaves as if nothing was saved.
	ErrNotFound = errors.New("credstore: credentials not found")
)

// Store persists the session's credential pair between runs.
// Implementations must treat corrupt stored data as absent rather than
// failing: a broken credentials file must never prevent startup.
type Store interface {
	// Load returns the persisted pair, or ErrNotFound if absent.
	Load(ctx context.Context) (*token.TokenPair, error)

	// Save overwrites the persisted pair.
	Save(ctx context.Context, pair *token.TokenPair) error

	// Clear removes any persisted pair. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
