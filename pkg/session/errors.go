package session

import "errors"

// Sentinel errors for session lifecycle operations.
var (
	// ErrBusy is returned when Login is called while another
	// authentication attempt is still in flight.
	ErrBusy = errors.New("session: authentication already in progress")

	// ErrAborted is returned when a login completed on the wire but the
	// session was torn down before its result could be installed.
	ErrAborted = errors.New("session: ended before completion")
)
