package internal

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeaders are checked (in order) for an existing correlation ID
// before a new one is generated.
var requestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// requestLogConfig holds the per-request log line configuration.
type requestLogConfig struct {
	enabled  bool
	logger   string
	level    slog.Level
	template string
}

func defaultRequestLogConfig() requestLogConfig {
	return requestLogConfig{
		level:    slog.LevelDebug,
		template: DefaultMessageTemplate,
	}
}

// Middleware returns chi-compatible net/http middleware that installs the
// request scope into the request context and, when request logging is
// enabled, emits one formatted log line after the handler returns.
//
// The scope is installed unconditionally: queue handlers need it to snapshot
// request state even when the per-request line is disabled.
func (e *Extension) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := NewResponseWriter(w)

			var session map[string]any
			if e.sessionFunc != nil {
				session = e.sessionFunc(r)
			}

			scope := NewRequestScope(r, rw, requestID(r), session)
			r = r.WithContext(ContextWithScope(r.Context(), scope))
			rw.Header().Set("X-Request-ID", scope.RequestID())

			next.ServeHTTP(rw, r)

			if e.requestLog.enabled {
				e.logRequest(r, scope)
			}
		})
	}
}

// logRequest renders and emits the per-request log line. A template
// referencing an unknown key is a configuration mistake and panics rather
// than silently dropping the line.
func (e *Extension) logRequest(r *http.Request, scope *RequestScope) {
	elapsed := scope.Elapsed() // memoize before building the data map

	msg, err := RenderTemplate(e.requestLog.template, BuildMessageData(scope))
	if err != nil {
		panic(fmt.Errorf("logpipe: request log template: %w", err))
	}

	name := e.requestLog.logger
	if name == "" {
		name = e.defaultLogger
	}

	e.Logger(name).LogAttrs(r.Context(), e.requestLog.level, msg,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", scope.Status()),
		slog.Int64("response_size", scope.ResponseSize()),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000.0),
		slog.String("request_id", scope.RequestID()),
	)
}

// requestID extracts an upstream correlation ID or generates a new one.
func requestID(r *http.Request) string {
	for _, header := range requestIDHeaders {
		if v := r.Header.Get(header); v != "" {
			return v
		}
	}
	return uuid.NewString()
}
