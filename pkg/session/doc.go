// Package session owns the dashboard's single authenticated session: the
// token pair, the identity decoded from it, and the lifecycle between
// unauthenticated, authenticating, authenticated, refreshing, and error
// states. Transitions are enumerated explicitly; an illegal one is
// rejected and logged rather than silently applied.
//
// Renewal happens two ways. A proactive one-shot timer fires five minutes
// before expiry, and the API layer reacts to authorization-denied
// responses by requesting a refresh. Both paths funnel through a
// single-flight guard, so near-simultaneous triggers produce exactly one
// network call and one token rotation; the second caller observes the
// first one's outcome. Refresh failure is terminal — the session tears
// down rather than retrying, so an invalidated refresh token can never
// cause a refresh storm.
//
// The scheduler and clock are injectable, which keeps the temporal
// behavior testable without sleeping.
package session
