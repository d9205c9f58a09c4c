// Package logger provides structured logging for the dashboard client:
// a log/slog JSON factory, context-based attribute injection (request IDs
// travel with the context, not with call sites), and optional Sentry
// forwarding for warnings and errors with graceful fallback when no DSN
// is configured.
package logger
