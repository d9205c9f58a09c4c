package credstore

import (
	"context"
	"sync"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// Memory is an ephemeral credential store. Credentials live only for
// the lifetime of the process; a restart starts unauthenticated.
type Memory struct {
	mu   sync.Mutex
	pair *token.TokenPair
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored pair, or ErrNotFound.
func (m *Memory) Load(_ context.Context) (*token.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pair == nil {
		return nil, ErrNotFound
	}
	pair := *m.pair
	return &pair, nil
}

// Save stores a copy of the pair.
func (m *Memory) Save(_ context.Context, pair *token.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := *pair
	m.pair = &p
	return nil
}

// Clear drops the stored pair.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = nil
	return nil
}

var _ Store = (*Memory)(nil)
