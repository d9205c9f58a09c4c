package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON-formatted logger at the given level with optional
// context extractors.
func New(level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(newExtractorHandler(h, extractors...))
}

// NewWithHandler wraps an existing handler with the context extractors.
// Useful when the caller controls the output destination or format.
func NewWithHandler(h slog.Handler, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(newExtractorHandler(h, extractors...))
}

// NewNope creates a no-op logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
