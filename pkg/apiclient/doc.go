// Package apiclient issues authorized requests against the dashboard
// API. Every request carries a bearer token from the session manager and
// a correlation ID; an authorization-denied response triggers exactly one
// token refresh and one replay, after which the verdict stands.
package apiclient
