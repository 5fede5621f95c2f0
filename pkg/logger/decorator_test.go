package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logpipe/pkg/logger"
)

type ctxKey struct{}

func tenantExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
			return slog.String("tenant", v), true
		}
		return slog.Attr{}, false
	}
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("injects extracted attribute", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), tenantExtractor())
		log := slog.New(h)

		ctx := context.WithValue(context.Background(), ctxKey{}, "acme")
		log.InfoContext(ctx, "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "acme", entry["tenant"])
	})

	t.Run("skips attribute when extractor declines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), tenantExtractor())
		slog.New(h).Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.NotContains(t, entry, "tenant")
	})

	t.Run("tolerates nil extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), nil, tenantExtractor(), nil)
		require.NotPanics(t, func() {
			slog.New(h).Info("hello")
		})
	})

	t.Run("WithAttrs preserves extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), tenantExtractor())
		log := slog.New(h).With("component", "api")

		ctx := context.WithValue(context.Background(), ctxKey{}, "acme")
		log.InfoContext(ctx, "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "api", entry["component"])
		require.Equal(t, "acme", entry["tenant"])
	})
}

func TestNewWithSentry(t *testing.T) {
	t.Parallel()

	t.Run("empty DSN falls back to stdout-only logger", func(t *testing.T) {
		t.Parallel()

		log := logger.NewWithSentry(logger.SentryConfig{})
		require.NotNil(t, log)
	})
}
