package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for outbound calls and performs
// a refresh when the server reports the token is no longer accepted.
// *session.Manager satisfies it.
type TokenSource interface {
	// AccessToken returns the current bearer token, "" if none.
	AccessToken() string

	// Refresh renews the token. It must collapse concurrent calls into
	// one rotation and report whether a usable token is now installed.
	Refresh(ctx context.Context) bool
}

type noAuthKey struct{}

// WithoutAuth marks a request to be sent without the Authorization
// header, for the handful of calls (signup-style endpoints) that must
// not carry a token.
func WithoutAuth(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), noAuthKey{}, true))
}

// Transport decorates outbound requests with the bearer token and a
// request ID, and handles reactive token expiry: a 401 triggers one
// refresh and one replay with the new token. The replay is never retried
// again, whatever it returns — that bound is what prevents a
// refresh/replay loop when the server keeps saying no.
type Transport struct {
	// Base is the underlying RoundTripper. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Source supplies and refreshes the bearer token.
	Source TokenSource

	// Log receives retry decisions. Nil disables logging.
	Log *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := req.Clone(req.Context())
	if out.Header.Get(requestIDHeader) == "" {
		out.Header.Set(requestIDHeader, uuid.NewString())
	}

	if skip, _ := req.Context().Value(noAuthKey{}).(bool); skip || t.Source == nil {
		return base.RoundTrip(out)
	}

	tok := t.Source.AccessToken()
	if tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if tok == "" {
		// Nothing to refresh; the caller was simply not logged in.
		return resp, nil
	}
	if req.GetBody == nil && req.Body != nil {
		// The body was consumed and cannot be replayed.
		return resp, nil
	}

	if t.Log != nil {
		t.Log.DebugContext(req.Context(), "access token rejected, refreshing once",
			slog.String("url", req.URL.Path))
	}

	if !t.Source.Refresh(req.Context()) {
		// Refresh failed; the session manager has already torn down.
		// Surface the original denial to the caller.
		return resp, nil
	}

	// Replay with the fresh token. Discard the denied response first so
	// its connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	retry := req.Clone(req.Context())
	retry.Header.Set(requestIDHeader, out.Header.Get(requestIDHeader))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	if fresh := t.Source.AccessToken(); fresh != "" {
		retry.Header.Set("Authorization", "Bearer "+fresh)
	}

	return base.RoundTrip(retry)
}

var _ http.RoundTripper = (*Transport)(nil)
