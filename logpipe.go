package logpipe

import (
	"context"

	"github.com/dmitrymomot/logpipe/internal"
	"github.com/dmitrymomot/logpipe/pkg/logger"
)

// Type aliases - public API
type (
	// Extension wires configuration, queueing, and request logging into one
	// application instance.
	Extension = internal.Extension

	// Option configures the extension.
	Option = internal.Option

	// Settings is the extension's declarative configuration surface.
	Settings = internal.Settings

	// RequestLogSettings configures the per-request log line.
	RequestLogSettings = internal.RequestLogSettings

	// RequestScope carries per-request state through the request context.
	RequestScope = internal.RequestScope

	// Snapshot is an immutable copy of request state, safe to read from any
	// goroutine after the request finishes.
	Snapshot = internal.Snapshot

	// Envelope pairs a log record with the snapshot captured at enqueue time.
	Envelope = internal.Envelope

	// QueueHandler is the producer-side slog handler for a queued logger.
	QueueHandler = internal.QueueHandler

	// Listener drains one queue into destination handlers.
	Listener = internal.Listener

	// ListenerRegistry tracks listeners by logger name in insertion order.
	ListenerRegistry = internal.ListenerRegistry

	// ResponseWriter wraps http.ResponseWriter to capture status and size.
	ResponseWriter = internal.ResponseWriter

	// Configurator loads a configuration source and binds destination
	// handlers onto the registry.
	Configurator = internal.Configurator

	// HandlerFactory builds the producer-side handler for a queued logger.
	HandlerFactory = internal.HandlerFactory

	// ListenerFactory builds the consumer for a queued logger.
	ListenerFactory = internal.ListenerFactory

	// SessionFunc exposes the host's session as a read-only map.
	SessionFunc = internal.SessionFunc

	// ContextExtractor extracts a slog attribute from context.
	// Extractors resolve against reactivated snapshots on listener
	// goroutines as well as live request scopes.
	ContextExtractor = logger.ContextExtractor
)

// Sentinel errors.
var (
	// ErrNoActiveContext is returned by Capture outside any request scope.
	ErrNoActiveContext = internal.ErrNoActiveContext

	// ErrNoRequestContext is returned by ResolveSnapshot when neither the
	// envelope nor the ambient context carries request state.
	ErrNoRequestContext = internal.ErrNoRequestContext

	// ErrNotConfigured is returned by InstallQueueing before Configure.
	ErrNotConfigured = internal.ErrNotConfigured

	// ErrDuplicateQueueName rejects installing queueing twice for one logger.
	ErrDuplicateQueueName = internal.ErrDuplicateQueueName

	// ErrUnknownPlaceholder reports a template key with no data source.
	ErrUnknownPlaceholder = internal.ErrUnknownPlaceholder
)

// DefaultMessageTemplate is the request log line template used when none is
// configured.
const DefaultMessageTemplate = internal.DefaultMessageTemplate

// DefaultLoggerName is the logger request lines are emitted on when no
// request logger is configured.
const DefaultLoggerName = internal.DefaultLoggerName

// New creates an extension with the given options.
//
// Example:
//
//	ext := logpipe.New(
//	    logpipe.WithFallbackLogger(fallback),
//	    logpipe.WithRequestLogging(),
//	)
func New(opts ...Option) *Extension {
	return internal.NewExtension(opts...)
}

// DefaultSettings returns settings with documented defaults: no configuration
// source, no queued loggers, request logging disabled.
func DefaultSettings() Settings {
	return internal.DefaultSettings()
}

// LoadSettings loads settings in layers: defaults, the optional YAML/JSON
// file at path, then LOGGING_* environment variables (LOGGING_SOURCE,
// LOGGING_QUEUE_NAMES, LOGGING_REQUEST_LOGGING_*).
func LoadSettings(path string) (Settings, error) {
	return internal.LoadSettings(path)
}

// Capture returns an immutable snapshot of the request state in ctx. Inside
// a request it copies the live scope; on a listener goroutine it returns the
// reactivated snapshot as-is. Returns ErrNoActiveContext elsewhere.
func Capture(ctx context.Context) (*Snapshot, error) {
	return internal.Capture(ctx)
}

// HasRequestContext reports whether ctx carries a request scope or a
// reactivated snapshot.
func HasRequestContext(ctx context.Context) bool {
	return internal.HasRequestContext(ctx)
}

// ScopeFromContext returns the live request scope installed by the
// middleware, if any.
func ScopeFromContext(ctx context.Context) (*RequestScope, bool) {
	return internal.ScopeFromContext(ctx)
}

// SnapshotFromContext returns the reactivated snapshot, if any.
func SnapshotFromContext(ctx context.Context) (*Snapshot, bool) {
	return internal.SnapshotFromContext(ctx)
}

// ResolveSnapshot resolves request state for a record being emitted: the
// envelope's snapshot wins, then the ambient context, then
// ErrNoRequestContext.
func ResolveSnapshot(ctx context.Context, env *Envelope) (*Snapshot, error) {
	return internal.ResolveSnapshot(ctx, env)
}

// WithResolvedContext resolves the request snapshot for env and runs fn with
// a context reactivated from it. Errors from resolution and fn propagate
// unchanged.
func WithResolvedContext(ctx context.Context, env *Envelope, fn func(ctx context.Context, snap *Snapshot) error) error {
	return internal.WithResolvedContext(ctx, env, fn)
}

// RequestIDExtractor returns a ContextExtractor adding "request_id" from the
// snapshot or live scope.
func RequestIDExtractor() ContextExtractor {
	return internal.RequestIDExtractor()
}

// RequestExtractor returns a ContextExtractor adding a "request" group with
// method, path, and remote address.
func RequestExtractor() ContextExtractor {
	return internal.RequestExtractor()
}

// SessionExtractor returns a ContextExtractor adding the named session value
// when the captured session carries it.
func SessionExtractor(key string) ContextExtractor {
	return internal.SessionExtractor(key)
}
