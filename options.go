package logpipe

import (
	"log/slog"

	"github.com/dmitrymomot/logpipe/internal"
)

// WithConfigurator replaces the configuration-loading strategy. The default
// is logcfg.Configure; hosts with their own configuration format supply a
// function here.
func WithConfigurator(fn Configurator) Option {
	return internal.WithConfigurator(fn)
}

// WithHandlerFactory replaces the producer-side queue handler constructor.
// Use it to layer additional handlers in front of the queue.
func WithHandlerFactory(fn HandlerFactory) Option {
	return internal.WithHandlerFactory(fn)
}

// WithListenerFactory replaces the listener constructor.
func WithListenerFactory(fn ListenerFactory) Option {
	return internal.WithListenerFactory(fn)
}

// WithFallbackLogger sets the logger used for listener emission failures and
// records dropped after queue close. Defaults to a no-op logger.
func WithFallbackLogger(l *slog.Logger) Option {
	return internal.WithFallbackLogger(l)
}

// WithSessionFunc exposes the host application's session to snapshots and
// request log templates.
//
// Example:
//
//	logpipe.WithSessionFunc(func(r *http.Request) map[string]any {
//	    return sessionManager.Values(r)
//	})
func WithSessionFunc(fn SessionFunc) Option {
	return internal.WithSessionFunc(fn)
}

// WithDefaultLoggerName overrides the logger request lines fall back to.
// Defaults to "app".
func WithDefaultLoggerName(name string) Option {
	return internal.WithDefaultLoggerName(name)
}

// WithRequestLogging enables the per-request log line.
func WithRequestLogging() Option {
	return internal.WithRequestLogging()
}

// WithRequestLogger sets the named logger request lines are emitted on.
func WithRequestLogger(name string) Option {
	return internal.WithRequestLogger(name)
}

// WithRequestLogLevel sets the severity of request lines. Defaults to debug.
func WithRequestLogLevel(level slog.Level) Option {
	return internal.WithRequestLogLevel(level)
}

// WithRequestMessageTemplate sets the request line template.
//
// Example:
//
//	logpipe.WithRequestMessageTemplate("{method} {url} took {execution_time}ms"),
func WithRequestMessageTemplate(tmpl string) Option {
	return internal.WithRequestMessageTemplate(tmpl)
}
