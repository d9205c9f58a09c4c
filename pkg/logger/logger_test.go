package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/logger"
)

type ctxKey struct{}

func testExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(ctxKey{}).(string); ok {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}

func newBufferLogger(extractors ...logger.ContextExtractor) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logger.NewWithHandler(h, extractors...), &buf
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	t.Run("attaches context attributes to records", func(t *testing.T) {
		t.Parallel()

		log, buf := newBufferLogger(testExtractor())

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-7")
		log.InfoContext(ctx, "session established")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "session established", rec["msg"])
		require.Equal(t, "req-7", rec["request_id"])
	})

	t.Run("silent when the context carries nothing", func(t *testing.T) {
		t.Parallel()

		log, buf := newBufferLogger(testExtractor())
		log.InfoContext(context.Background(), "plain record")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.NotContains(t, rec, "request_id")
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	// Must be safe to log at any level without output or panic.
	log := logger.NewNope()
	log.Debug("dropped")
	log.Error("also dropped")
}

func TestNewWithSentry(t *testing.T) {
	t.Parallel()

	// An empty DSN must degrade to a plain logger, not fail.
	log := logger.NewWithSentry(logger.SentryConfig{Level: slog.LevelInfo})
	require.NotNil(t, log)
	log.Info("stdout only")
}
