package internal

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := RequestIDExtractor()

	t.Run("resolves from a reactivated snapshot", func(t *testing.T) {
		t.Parallel()

		snap := newTestScope(t, http.MethodGet, "/", nil).Snapshot()
		attr, ok := extract(snap.Reactivate(t.Context()))
		require.True(t, ok)
		require.Equal(t, "request_id", attr.Key)
		require.Equal(t, "req-123", attr.Value.String())
	})

	t.Run("resolves from a live scope", func(t *testing.T) {
		t.Parallel()

		ctx := ContextWithScope(t.Context(), newTestScope(t, http.MethodGet, "/", nil))
		attr, ok := extract(ctx)
		require.True(t, ok)
		require.Equal(t, "req-123", attr.Value.String())
	})

	t.Run("absent without request context", func(t *testing.T) {
		t.Parallel()

		_, ok := extract(t.Context())
		require.False(t, ok)
	})
}

func TestRequestExtractor(t *testing.T) {
	t.Parallel()

	extract := RequestExtractor()

	t.Run("groups method, path, and remote address", func(t *testing.T) {
		t.Parallel()

		snap := newTestScope(t, http.MethodPost, "/orders", nil).Snapshot()
		attr, ok := extract(snap.Reactivate(t.Context()))
		require.True(t, ok)
		require.Equal(t, "request", attr.Key)
		require.Equal(t, slog.KindGroup, attr.Value.Kind())

		got := map[string]string{}
		for _, a := range attr.Value.Group() {
			got[a.Key] = a.Value.String()
		}
		require.Equal(t, "POST", got["method"])
		require.Equal(t, "/orders", got["path"])
		require.NotEmpty(t, got["remote_addr"])
	})

	t.Run("absent without request context", func(t *testing.T) {
		t.Parallel()

		_, ok := extract(t.Context())
		require.False(t, ok)
	})
}

func TestSessionExtractor(t *testing.T) {
	t.Parallel()

	t.Run("resolves a present session value", func(t *testing.T) {
		t.Parallel()

		snap := newTestScope(t, http.MethodGet, "/", map[string]any{"user_id": "u7"}).Snapshot()
		attr, ok := SessionExtractor("user_id")(snap.Reactivate(t.Context()))
		require.True(t, ok)
		require.Equal(t, "session.user_id", attr.Key)
		require.Equal(t, "u7", attr.Value.String())
	})

	t.Run("absent for a missing key", func(t *testing.T) {
		t.Parallel()

		snap := newTestScope(t, http.MethodGet, "/", nil).Snapshot()
		_, ok := SessionExtractor("user_id")(snap.Reactivate(t.Context()))
		require.False(t, ok)
	})

	t.Run("absent without request context", func(t *testing.T) {
		t.Parallel()

		_, ok := SessionExtractor("user_id")(t.Context())
		require.False(t, ok)
	})
}
