package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"

	redislib "github.com/redis/go-redis/v9"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/apiclient"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/authapi"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/cache"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/credstore"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
	redisconn "github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/redis"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/session"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// Client is the dashboard client core: the session manager, the
// authorized API client, and the reference-data cache, wired together.
// The UI shell holds one Client per process.
type Client struct {
	cfg      Config
	log      *slog.Logger
	sessions *session.Manager
	api      *apiclient.Client
	ref      cache.Cache[json.RawMessage]
	redis    redislib.UniversalClient // nil unless RedisURL was configured
}

// New wires a Client from configuration. The session starts empty; call
// Restore once at startup to pick up persisted credentials.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	log := s.log
	if log == nil {
		log = logger.NewWithSentry(logger.SentryConfig{
			DSN:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Level:       cfg.logLevel(),
		}, apiclient.RequestIDExtractor())
	}

	store := s.store
	if store == nil {
		if cfg.CredentialsFile != "" {
			store = credstore.NewFile(cfg.CredentialsFile)
		} else {
			store = credstore.NewMemory()
		}
	}

	auth, err := authapi.New(cfg.APIBaseURL, authapi.WithLogger(log))
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(log)}
	if s.scheduler != nil {
		sessionOpts = append(sessionOpts, session.WithScheduler(s.scheduler))
	}
	sessions := session.NewManager(auth, store, sessionOpts...)

	api, err := apiclient.New(cfg.APIBaseURL, sessions, apiclient.WithLogger(log))
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		api:      api,
		ref:      s.ref,
	}

	if c.ref == nil {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		if cfg.RedisURL != "" {
			rdb, err := redisconn.Open(context.Background(), cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			c.redis = rdb
			c.ref = cache.NewRedis[json.RawMessage](rdb, nil,
				cache.WithPrefix("kaacib:ref"),
				cache.WithRedisDefaultTTL(ttl))
		} else {
			c.ref = cache.NewMemory[json.RawMessage](cache.WithDefaultTTL(ttl))
		}
	}

	return c, nil
}

// Close releases resources held by the client. The session itself is
// left alone: closing the client is not a logout.
func (c *Client) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// Login establishes a session from user credentials.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*token.Identity, error) {
	return c.sessions.Login(ctx, authapi.Credentials{Identifier: identifier, Secret: secret})
}

// Restore rebuilds the session from persisted credentials, if possible.
func (c *Client) Restore(ctx context.Context) bool {
	return c.sessions.Restore(ctx)
}

// Logout tears the session down and drops all cached reference data,
// so the next user on this machine starts from a cold cache.
func (c *Client) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)
	c.InvalidateAllReferences(ctx)
}

// Identity returns the authenticated identity, or nil.
func (c *Client) Identity() *token.Identity {
	return c.sessions.Identity()
}

// Status returns the session lifecycle status.
func (c *Client) Status() session.Status {
	return c.sessions.Status()
}

// HasRole reports whether the authenticated user carries the role.
func (c *Client) HasRole(role string) bool {
	return c.sessions.HasRole(role)
}

// HasPermission reports whether the authenticated user carries the permission.
func (c *Client) HasPermission(perm string) bool {
	return c.sessions.HasPermission(perm)
}

// LastError returns the last recorded authentication failure, "" if none.
func (c *Client) LastError() string {
	return c.sessions.LastError()
}

// DismissError clears a recorded authentication failure.
func (c *Client) DismissError() {
	c.sessions.DismissError()
}

// Sessions exposes the session manager for shells that need lifecycle
// details beyond the facade.
func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

// API returns the authorized API client for the dashboard's data endpoints.
func (c *Client) API() *apiclient.Client {
	return c.api
}
