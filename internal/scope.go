package internal

import (
	"context"
	"net/http"
	"time"
)

// scopeKey is the context key for the live request scope.
type scopeKey struct{}

// RequestScope is the live per-request state the middleware installs into the
// request context. It is owned by the request goroutine; other goroutines
// must not touch it — they receive an immutable Snapshot instead.
type RequestScope struct {
	request   *http.Request
	writer    *ResponseWriter
	session   map[string]any
	requestID string
	startedAt time.Time

	// Memoized on first Elapsed call so repeated reads (request log line,
	// handlers, tests) observe one stable value.
	elapsed    time.Duration
	elapsedSet bool
}

// NewRequestScope creates a scope for the given request. The session view may
// be nil when the host application exposes no session.
func NewRequestScope(r *http.Request, w *ResponseWriter, requestID string, session map[string]any) *RequestScope {
	return &RequestScope{
		request:   r,
		writer:    w,
		session:   session,
		requestID: requestID,
		startedAt: time.Now(),
	}
}

// Request returns the live request. Valid only while the request is in flight.
func (s *RequestScope) Request() *http.Request { return s.request }

// RequestID returns the request's correlation ID.
func (s *RequestScope) RequestID() string { return s.requestID }

// StartedAt returns the time the scope was created.
func (s *RequestScope) StartedAt() time.Time { return s.startedAt }

// Session returns the session view. Treat as read-only; may be nil.
func (s *RequestScope) Session() map[string]any { return s.session }

// Status returns the response status code written so far, or 200 if the
// handler wrote a body without an explicit status.
func (s *RequestScope) Status() int {
	if s.writer == nil {
		return 0
	}
	return s.writer.Status()
}

// ResponseSize returns the number of response body bytes written so far.
func (s *RequestScope) ResponseSize() int64 {
	if s.writer == nil {
		return 0
	}
	return s.writer.Size()
}

// Elapsed returns the time since the scope started, computed once and
// memoized. Subsequent calls return the same value.
func (s *RequestScope) Elapsed() time.Duration {
	if !s.elapsedSet {
		s.elapsed = time.Since(s.startedAt)
		s.elapsedSet = true
	}
	return s.elapsed
}

// ElapsedMemoized reports the memoized elapsed time, or false if Elapsed has
// not been called yet. It never triggers the computation itself.
func (s *RequestScope) ElapsedMemoized() (time.Duration, bool) {
	return s.elapsed, s.elapsedSet
}

// ContextWithScope returns a context carrying the scope.
func ContextWithScope(ctx context.Context, s *RequestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the live request scope, if any.
func ScopeFromContext(ctx context.Context) (*RequestScope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*RequestScope)
	return s, ok
}

// HasRequestContext reports whether ctx carries request state: either a live
// scope or a reactivated snapshot.
func HasRequestContext(ctx context.Context) bool {
	if _, ok := ScopeFromContext(ctx); ok {
		return true
	}
	_, ok := SnapshotFromContext(ctx)
	return ok
}
