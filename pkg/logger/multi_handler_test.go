package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logpipe/pkg/logger"
)

type brokenHandler struct{ err error }

func (h brokenHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h brokenHandler) Handle(context.Context, slog.Record) error { return h.err }
func (h brokenHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h brokenHandler) WithGroup(string) slog.Handler             { return h }

func TestNewMultiHandler(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every destination", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		h := logger.NewMultiHandler(
			slog.NewJSONHandler(&a, nil),
			slog.NewJSONHandler(&b, nil),
		)
		slog.New(h).Info("fan out")

		for _, buf := range []*bytes.Buffer{&a, &b} {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.Equal(t, "fan out", entry["msg"])
		}
	})

	t.Run("each destination applies its own level", func(t *testing.T) {
		t.Parallel()

		var loud, quiet bytes.Buffer
		h := logger.NewMultiHandler(
			slog.NewJSONHandler(&loud, &slog.HandlerOptions{Level: slog.LevelDebug}),
			slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
		)
		slog.New(h).Info("selective")

		require.NotEmpty(t, loud.Bytes())
		require.Empty(t, quiet.Bytes())
	})

	t.Run("enabled when any destination is", func(t *testing.T) {
		t.Parallel()

		h := logger.NewMultiHandler(
			slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		)
		require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
		require.True(t, h.Enabled(context.Background(), slog.LevelError))

		require.False(t, logger.NewMultiHandler().Enabled(context.Background(), slog.LevelError))
	})

	t.Run("one broken destination does not silence the rest", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk full")
		var buf bytes.Buffer
		h := logger.NewMultiHandler(
			brokenHandler{err: boom},
			slog.NewJSONHandler(&buf, nil),
		)

		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "kept", 0)
		err := h.Handle(context.Background(), rec)
		require.ErrorIs(t, err, boom)
		require.NotEmpty(t, buf.Bytes())
	})

	t.Run("WithAttrs reaches all destinations", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		h := logger.NewMultiHandler(
			slog.NewJSONHandler(&a, nil),
			slog.NewJSONHandler(&b, nil),
		)
		slog.New(h).With("component", "api").Info("tagged")

		for _, buf := range []*bytes.Buffer{&a, &b} {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.Equal(t, "api", entry["component"])
		}
	})
}
