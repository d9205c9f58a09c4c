// Package token defines the credential pair exchanged with the dashboard
// auth endpoints and the identity claims decoded from an access token.
//
// Decoding is deliberately unverified: the client never holds signing keys,
// and a forged token buys nothing because every API call is re-validated by
// the server. What the client needs from the token is its claims — who is
// logged in, what they may do, and when the token expires.
package token
