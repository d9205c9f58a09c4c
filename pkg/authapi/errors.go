package authapi

import "errors"

// Sentinel errors for the auth endpoints.
var (
	// ErrInvalidCredentials is returned when the server rejects a login.
	ErrInvalidCredentials = errors.New("authapi: invalid credentials")

	// ErrRefreshRejected is returned when the server invalidates the
	// presented refresh token.
	ErrRefreshRejected = errors.New("authapi: refresh token rejected")

	// ErrNetwork is returned on transport-level failures, before any
	// server verdict was received.
	ErrNetwork = errors.New("authapi: network failure")

	// ErrBadResponse is returned when the server answered but the
	// response could not be used (unexpected status, unparseable body,
	// or a token response with no access token in it).
	ErrBadResponse = errors.New("authapi: unusable server response")
)
