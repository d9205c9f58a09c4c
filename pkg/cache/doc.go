// Package cache provides the short-lived read cache the dashboard uses to
// avoid re-fetching slowly-changing reference data (branch lists, service
// catalogues) within a browsing session.
//
// Entries carry a fixed default lifetime of ten minutes and are evicted
// lazily: an expired entry is removed by the next read that touches it,
// at which point it is indistinguishable from one that was never stored.
// Caching here is an optimization, never a correctness requirement —
// callers that treat every miss as "go fetch" are always correct.
//
// Two backends implement the same Cache interface: Memory for a single
// process, and Redis for deployments that share reference data across
// processes. The Redis keyspace may be shared with unrelated data; Clear
// is therefore a broad operation and should be reserved for logout.
package cache
