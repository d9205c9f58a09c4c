package apiclient

import (
	"context"
	"log/slog"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
)

// requestIDHeader is the correlation header attached to every outbound call.
const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored in the context, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDExtractor returns a logger extractor that attaches the
// outbound request ID to every log record written with the request's
// context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := RequestIDFromContext(ctx); ok {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
