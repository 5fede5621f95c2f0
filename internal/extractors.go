package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/logpipe/pkg/logger"
)

// RequestIDExtractor returns a ContextExtractor adding "request_id" to log
// records. It resolves from a reactivated snapshot first, so records emitted
// on listener goroutines keep their originating request's ID.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if snap, ok := SnapshotFromContext(ctx); ok && snap.RequestID != "" {
			return slog.String("request_id", snap.RequestID), true
		}
		if scope, ok := ScopeFromContext(ctx); ok && scope.RequestID() != "" {
			return slog.String("request_id", scope.RequestID()), true
		}
		return slog.Attr{}, false
	}
}

// RequestExtractor returns a ContextExtractor adding a "request" group with
// method, path, and remote address resolved from the snapshot or live scope.
func RequestExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if snap, ok := SnapshotFromContext(ctx); ok {
			return slog.Group("request",
				slog.String("method", snap.Method),
				slog.String("path", snap.Path),
				slog.String("remote_addr", snap.RemoteAddr),
			), true
		}
		if scope, ok := ScopeFromContext(ctx); ok {
			r := scope.Request()
			return slog.Group("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			), true
		}
		return slog.Attr{}, false
	}
}

// SessionExtractor returns a ContextExtractor adding the named session value
// when present in the captured session view.
func SessionExtractor(key string) logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		snap, err := Capture(ctx)
		if err != nil {
			return slog.Attr{}, false
		}
		if v := snap.SessionValue(key); v != nil {
			return slog.Any("session."+key, v), true
		}
		return slog.Attr{}, false
	}
}
