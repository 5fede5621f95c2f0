package internal

import (
	"context"
	"maps"
	"net/http"
	"strings"
	"time"
)

// snapshotKey is the context key for a reactivated snapshot.
type snapshotKey struct{}

// Snapshot is an immutable copy of request-scoped state, safe to read from
// any goroutine after the originating request has ended. Maps and headers are
// deep-copied at capture time; treat every field as read-only.
type Snapshot struct {
	Method     string
	Path       string
	RawQuery   string
	BaseURL    string
	URL        string
	Host       string
	Proto      string
	RemoteAddr string
	UserAgent  string
	RequestID  string
	Header     http.Header
	Session    map[string]any
	Environ    map[string]string
	CapturedAt time.Time
}

// Capture returns a snapshot of the request state on ctx. A reactivated
// snapshot is returned as-is (it is already immutable); a live scope is
// copied. Fails with ErrNoActiveContext outside any request context.
func Capture(ctx context.Context) (*Snapshot, error) {
	if snap, ok := SnapshotFromContext(ctx); ok {
		return snap, nil
	}
	if scope, ok := ScopeFromContext(ctx); ok {
		return scope.Snapshot(), nil
	}
	return nil, ErrNoActiveContext
}

// Snapshot captures the scope's current request state into an immutable copy.
func (s *RequestScope) Snapshot() *Snapshot {
	r := s.request
	return &Snapshot{
		Method:     r.Method,
		Path:       r.URL.Path,
		RawQuery:   r.URL.RawQuery,
		BaseURL:    baseURL(r),
		URL:        baseURL(r) + r.URL.RequestURI(),
		Host:       r.Host,
		Proto:      r.Proto,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		RequestID:  s.requestID,
		Header:     r.Header.Clone(),
		Session:    maps.Clone(s.session),
		Environ:    environMap(r),
		CapturedAt: time.Now(),
	}
}

// Reactivate returns a context whose ambient request accessors (Capture,
// HasRequestContext, the log extractors) resolve to the captured state. The
// originating request does not need to be alive.
func (s *Snapshot) Reactivate(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, snapshotKey{}, s)
}

// SnapshotFromContext returns the reactivated snapshot, if any.
func SnapshotFromContext(ctx context.Context) (*Snapshot, bool) {
	s, ok := ctx.Value(snapshotKey{}).(*Snapshot)
	return s, ok
}

// SessionValue returns the captured session value for key, or nil when the
// key (or the whole session) is absent. Absence is never an error.
func (s *Snapshot) SessionValue(key string) any {
	if s.Session == nil {
		return nil
	}
	return s.Session[key]
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// environMap builds transport-level variables from the request, one entry per
// header plus the usual gateway-style request metadata.
func environMap(r *http.Request) map[string]string {
	env := map[string]string{
		"REQUEST_METHOD":  r.Method,
		"PATH_INFO":       r.URL.Path,
		"QUERY_STRING":    r.URL.RawQuery,
		"REMOTE_ADDR":     r.RemoteAddr,
		"SERVER_PROTOCOL": r.Proto,
		"HTTP_HOST":       r.Host,
	}
	for name, vals := range r.Header {
		key := "HTTP_" + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
		env[key] = strings.Join(vals, ", ")
	}
	return env
}
