// Package credstore abstracts where the session's credential pair is
// persisted. The session manager depends only on the Store interface;
// the File implementation survives restarts, Memory is session-only.
package credstore
