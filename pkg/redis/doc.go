// Package redis opens the connection behind the shared reference-data
// cache backend. URL-based configuration, pooling, and a ping-with-retry
// on startup; the client lifecycle belongs to the caller.
package redis
