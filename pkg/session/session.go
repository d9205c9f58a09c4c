package session

import (
	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnauthenticated is the empty state: no tokens, no identity.
	StatusUnauthenticated Status = iota

	// StatusAuthenticating means a login call is in flight.
	StatusAuthenticating

	// StatusAuthenticated means a valid token pair is installed.
	StatusAuthenticated

	// StatusRefreshing means a token renewal is in flight; the previous
	// identity remains readable until the swap lands.
	StatusRefreshing

	// StatusError means the last authentication attempt failed.
	// LastError carries the reason until the next attempt or a dismissal.
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusRefreshing:
		return "refreshing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// legalTransitions enumerates the permitted lifecycle moves. Anything not
// listed is a bug in the caller and is rejected rather than applied; the
// session never drifts through an unlisted state.
//
// Teardown (→ Unauthenticated) is legal from every state so that logout
// can always win.
var legalTransitions = map[Status][]Status{
	StatusUnauthenticated: {StatusAuthenticating, StatusAuthenticated, StatusUnauthenticated},
	StatusAuthenticating:  {StatusAuthenticated, StatusError, StatusUnauthenticated},
	StatusAuthenticated:   {StatusRefreshing, StatusAuthenticating, StatusUnauthenticated},
	StatusRefreshing:      {StatusAuthenticated, StatusUnauthenticated},
	StatusError:           {StatusAuthenticating, StatusUnauthenticated},
}

// canTransition reports whether moving from one status to another is legal.
func canTransition(from, to Status) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Session is a read snapshot of the managed session. Only the Manager
// mutates session state; everyone else sees copies.
//
// Identity is non-nil exactly when Status is StatusAuthenticated or
// StatusRefreshing.
type Session struct {
	Identity  *token.Identity
	Tokens    token.TokenPair
	Status    Status
	LastError string
}

// Authenticated reports whether the snapshot carries a usable identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated || s.Status == StatusRefreshing
}
