package dashboard

import (
	"encoding/json"
	"log/slog"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/cache"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/credstore"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/session"
)

// Option overrides a wiring default on New.
type Option func(*settings)

type settings struct {
	log       *slog.Logger
	store     credstore.Store
	ref       cache.Cache[json.RawMessage]
	scheduler session.Scheduler
}

// WithLogger replaces the configured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithCredentialStore replaces the credential store chosen from config.
func WithCredentialStore(store credstore.Store) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithReferenceCache replaces the reference-data cache chosen from config.
func WithReferenceCache(c cache.Cache[json.RawMessage]) Option {
	return func(s *settings) {
		s.ref = c
	}
}

// WithScheduler replaces the proactive-refresh timer scheduler.
// Primarily a test seam.
func WithScheduler(sched session.Scheduler) Option {
	return func(s *settings) {
		s.scheduler = sched
	}
}
