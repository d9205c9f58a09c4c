package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/authapi"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/credstore"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// DefaultLeadTime is how long before token expiry the proactive refresh
// timer fires. Five minutes leaves room for a slow refresh call without
// ever presenting an expired token.
const DefaultLeadTime = 5 * time.Minute

// AuthAPI is the slice of the auth endpoint client the manager needs.
// *authapi.Client satisfies it; tests substitute fakes.
type AuthAPI interface {
	Login(ctx context.Context, creds authapi.Credentials) (*token.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*token.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// Manager owns the process's single authenticated session: establishing
// it, renewing it ahead of expiry, and tearing it down. All mutation goes
// through the Manager; everything else reads snapshots.
type Manager struct {
	api   AuthAPI
	store credstore.Store
	sched Scheduler
	now   func() time.Time
	log   *slog.Logger
	lead  time.Duration

	mu     sync.Mutex
	sess   Session
	cancel CancelFunc // pending proactive-refresh timer, nil if none

	// gen increments on every teardown. In-flight login/refresh results
	// from an older generation are discarded, so a logout that lands
	// mid-flight is the last mutation observed.
	gen uint64

	sf singleflight.Group
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the manager logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithScheduler sets the timer scheduler used for proactive refresh.
// Defaults to the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) {
		if s != nil {
			m.sched = s
		}
	}
}

// WithNow overrides the clock. Intended for tests; defaults to time.Now.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLeadTime sets how long before expiry the proactive refresh fires.
// Defaults to DefaultLeadTime.
func WithLeadTime(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lead = d
		}
	}
}

// NewManager creates a session manager over the given auth client and
// credential store. The session starts empty.
func NewManager(api AuthAPI, store credstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:   api,
		store: store,
		sched: NewTimerScheduler(),
		now:   time.Now,
		log:   logger.NewNope(),
		lead:  DefaultLeadTime,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login establishes a session from credentials. On success the decoded
// identity is returned, both tokens are persisted, and the proactive
// refresh timer is armed. On any failure — including an undecodable token
// on an otherwise successful call — the session ends up in StatusError
// with no tokens persisted; there is no partial commit.
func (m *Manager) Login(ctx context.Context, creds authapi.Credentials) (*token.Identity, error) {
	m.mu.Lock()
	if m.sess.Status == StatusAuthenticating || m.sess.Status == StatusRefreshing {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	if !m.transitionLocked(StatusAuthenticating) {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	// A fresh login replaces whatever session existed; its timer must not
	// fire for tokens that are about to be discarded either way.
	m.cancelTimerLocked()
	m.sess.Identity = nil
	m.sess.Tokens = token.TokenPair{}
	gen := m.gen
	m.mu.Unlock()

	pair, err := m.api.Login(ctx, creds)
	var ident *token.Identity
	if err == nil {
		ident, err = token.Decode(pair.AccessToken)
		if err != nil {
			m.log.WarnContext(ctx, "login returned an undecodable access token", slog.Any("error", err))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// Torn down while the call was in flight; do not resurrect.
		return nil, ErrAborted
	}

	if err != nil {
		m.failLocked(err)
		return nil, err
	}

	m.installLocked(ctx, *pair, ident)
	m.log.InfoContext(ctx, "session established",
		slog.String("subject", ident.Subject),
		slog.Time("expires_at", ident.ExpiresAt))
	return ident, nil
}

// Restore rebuilds the session from persisted credentials at startup.
// A valid unexpired access token restores directly; an expired one with a
// refresh token triggers a refresh; anything else clears storage and
// leaves the session unauthenticated. Restore never fails loudly —
// malformed persisted data just means logging in again.
func (m *Manager) Restore(ctx context.Context) bool {
	pair, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			m.log.WarnContext(ctx, "could not read persisted credentials", slog.Any("error", err))
			_ = m.store.Clear(ctx)
		}
		return false
	}

	ident, err := token.Decode(pair.AccessToken)
	switch {
	case err == nil && !ident.ExpiredAt(m.now()):
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.sess.Status != StatusUnauthenticated {
			return m.sess.Authenticated()
		}
		m.installLocked(ctx, *pair, ident)
		m.log.InfoContext(ctx, "session restored from storage", slog.String("subject", ident.Subject))
		return true

	case pair.RefreshToken != "":
		// Access token expired or unreadable; the refresh token may still
		// mint a fresh pair.
		m.mu.Lock()
		m.sess.Tokens.RefreshToken = pair.RefreshToken
		m.mu.Unlock()
		return m.Refresh(ctx)

	default:
		_ = m.store.Clear(ctx)
		return false
	}
}

// Refresh renews the session using the stored refresh token. Concurrent
// callers — the proactive timer and the reactive 401 path racing, for
// example — collapse into a single network call and share its outcome.
//
// Refresh failure is terminal for the session: any error tears it down
// and returns false. There is no retry loop.
func (m *Manager) Refresh(ctx context.Context) bool {
	v, _, _ := m.sf.Do("refresh", func() (any, error) {
		return m.refresh(ctx), nil
	})
	ok, _ := v.(bool)
	return ok
}

func (m *Manager) refresh(ctx context.Context) bool {
	m.mu.Lock()
	refreshToken := m.sess.Tokens.RefreshToken
	if refreshToken == "" {
		m.mu.Unlock()
		m.log.DebugContext(ctx, "refresh requested with no refresh token")
		m.Logout(ctx)
		return false
	}
	gen := m.gen
	if m.sess.Status == StatusAuthenticated {
		m.transitionLocked(StatusRefreshing)
	}
	m.mu.Unlock()

	pair, err := m.api.Refresh(ctx, refreshToken)
	var ident *token.Identity
	if err == nil {
		ident, err = token.Decode(pair.AccessToken)
	}
	if err != nil {
		m.log.WarnContext(ctx, "session refresh failed, ending session", slog.Any("error", err))
		m.Logout(ctx)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// Logout won the race; the minted tokens are dropped on the floor.
		return false
	}

	m.installLocked(ctx, *pair, ident)
	m.log.DebugContext(ctx, "session refreshed", slog.Time("expires_at", ident.ExpiresAt))
	return true
}

// Logout tears the session down: best-effort server notification, timer
// cancelled, persisted credentials cleared, state reset. Idempotent.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	accessToken := m.sess.Tokens.AccessToken
	m.gen++
	m.cancelTimerLocked()
	m.transitionLocked(StatusUnauthenticated)
	m.sess = Session{Status: StatusUnauthenticated}
	if err := m.store.Clear(ctx); err != nil {
		m.log.WarnContext(ctx, "could not clear persisted credentials", slog.Any("error", err))
	}
	m.mu.Unlock()

	if accessToken == "" {
		return
	}
	if err := m.api.Logout(ctx, accessToken); err != nil {
		// Teardown already happened; the server finding out is optional.
		m.log.DebugContext(ctx, "logout notification failed", slog.Any("error", err))
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// Status returns the current lifecycle status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Status
}

// Identity returns the current identity, or nil when unauthenticated.
func (m *Manager) Identity() *token.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Identity
}

// AccessToken returns the current bearer token, or "" when there is none.
// This is the token source for outbound request decoration.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Tokens.AccessToken
}

// HasRole reports whether the authenticated identity carries the role.
// False — not an error — when unauthenticated.
func (m *Manager) HasRole(role string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sess.Authenticated() {
		return false
	}
	return m.sess.Identity.HasRole(role)
}

// HasPermission reports whether the authenticated identity carries the
// permission. False when unauthenticated.
func (m *Manager) HasPermission(perm string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sess.Authenticated() {
		return false
	}
	return m.sess.Identity.HasPermission(perm)
}

// LastError returns the failure reason recorded by the last unsuccessful
// attempt, or "" if none.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.LastError
}

// DismissError clears a recorded failure and returns the session to the
// empty state. No-op unless the session is in StatusError.
func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Status != StatusError {
		return
	}
	m.transitionLocked(StatusUnauthenticated)
	m.sess = Session{Status: StatusUnauthenticated}
}

// installLocked atomically swaps in a new token set: identity, tokens and
// status change together, the stale timer dies, the new one is armed, and
// the pair is re-persisted. Callers hold the mutex.
func (m *Manager) installLocked(ctx context.Context, pair token.TokenPair, ident *token.Identity) {
	if !m.transitionLocked(StatusAuthenticated) {
		return
	}
	m.sess.Tokens = pair
	m.sess.Identity = ident
	m.sess.LastError = ""

	m.cancelTimerLocked()
	m.scheduleRefreshLocked(ident.ExpiresAt)

	if err := m.store.Save(ctx, &pair); err != nil {
		// The in-memory session is valid either way; only restore-after-
		// restart is affected.
		m.log.WarnContext(ctx, "could not persist credentials", slog.Any("error", err))
	}
}

// failLocked records a failed attempt: session fields cleared, reason
// kept for the UI. Callers hold the mutex.
func (m *Manager) failLocked(err error) {
	m.cancelTimerLocked()
	if !m.transitionLocked(StatusError) {
		return
	}
	m.sess.Tokens = token.TokenPair{}
	m.sess.Identity = nil
	m.sess.LastError = err.Error()
}

// scheduleRefreshLocked arms the proactive one-shot timer at
// expiresAt − lead. Inside the lead window no timer is armed; the
// reactive 401 path covers that gap. Callers hold the mutex and have
// already cancelled any previous timer.
func (m *Manager) scheduleRefreshLocked(expiresAt time.Time) {
	d := expiresAt.Sub(m.now()) - m.lead
	if d <= 0 {
		return
	}

	gen := m.gen
	m.cancel = m.sched.Schedule(d, func() {
		m.mu.Lock()
		stale := m.gen != gen
		m.mu.Unlock()
		if stale {
			return
		}
		m.Refresh(context.Background())
	})
}

// cancelTimerLocked stops a pending proactive timer, if any.
// Callers hold the mutex.
func (m *Manager) cancelTimerLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// transitionLocked applies a status change if the lifecycle allows it.
// An illegal transition is logged and rejected, leaving the state as is.
// Callers hold the mutex.
func (m *Manager) transitionLocked(to Status) bool {
	from := m.sess.Status
	if !canTransition(from, to) {
		m.log.Warn("illegal session transition rejected",
			slog.String("from", from.String()),
			slog.String("to", to.String()))
		return false
	}
	m.sess.Status = to
	return true
}
