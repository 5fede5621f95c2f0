package internal

import "log/slog"

// Option configures the extension.
type Option func(*Extension)

// WithConfigurator replaces the configuration-loading strategy.
func WithConfigurator(fn Configurator) Option {
	return func(e *Extension) {
		if fn != nil {
			e.configurator = fn
		}
	}
}

// WithHandlerFactory replaces the producer-side queue handler constructor.
func WithHandlerFactory(fn HandlerFactory) Option {
	return func(e *Extension) {
		if fn != nil {
			e.handlerFac = fn
		}
	}
}

// WithListenerFactory replaces the listener constructor.
func WithListenerFactory(fn ListenerFactory) Option {
	return func(e *Extension) {
		if fn != nil {
			e.listenerFac = fn
		}
	}
}

// WithFallbackLogger sets the error channel for listener emission failures
// and queue-closed drops. Defaults to a no-op logger.
func WithFallbackLogger(l *slog.Logger) Option {
	return func(e *Extension) {
		if l != nil {
			e.fallback = l
		}
	}
}

// WithSessionFunc exposes the host's session as a read-only map to snapshots
// and request log templates.
func WithSessionFunc(fn SessionFunc) Option {
	return func(e *Extension) {
		e.sessionFunc = fn
	}
}

// WithDefaultLoggerName overrides the logger used for request lines when no
// request logger is configured. Defaults to "app".
func WithDefaultLoggerName(name string) Option {
	return func(e *Extension) {
		if name != "" {
			e.defaultLogger = name
		}
	}
}

// WithRequestLogging enables the per-request log line with current settings.
func WithRequestLogging() Option {
	return func(e *Extension) {
		e.requestLog.enabled = true
	}
}

// WithRequestLogger sets the named logger request lines are emitted on.
func WithRequestLogger(name string) Option {
	return func(e *Extension) {
		e.requestLog.logger = name
	}
}

// WithRequestLogLevel sets the severity of request lines. Defaults to debug.
func WithRequestLogLevel(level slog.Level) Option {
	return func(e *Extension) {
		e.requestLog.level = level
	}
}

// WithRequestMessageTemplate sets the request line template.
// Defaults to DefaultMessageTemplate.
func WithRequestMessageTemplate(tmpl string) Option {
	return func(e *Extension) {
		if tmpl != "" {
			e.requestLog.template = tmpl
		}
	}
}
