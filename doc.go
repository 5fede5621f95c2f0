// Package logpipe moves log handling off the request path: named loggers are
// rebound onto in-memory queues, and dedicated listener goroutines drain each
// queue into the originally configured destination handlers. Request handlers
// pay only the cost of an enqueue.
//
// Request context survives the goroutine hop. The middleware installs a
// [RequestScope] into the request context; the queue handler captures an
// immutable [Snapshot] of it alongside every record, and the listener
// reactivates that snapshot into the emission context, so context extractors
// and destination handlers still see the originating request's method, path,
// headers, and session after the request has finished.
//
// # Quick Start
//
// Create an extension, apply settings, and mount the middleware:
//
//	ext := logpipe.New(
//	    logpipe.WithFallbackLogger(fallback),
//	)
//
//	settings, err := logpipe.LoadSettings("logging.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ext.Apply(settings); err != nil {
//	    log.Fatal(err)
//	}
//	defer ext.StopListeners()
//
//	r := chi.NewRouter()
//	r.Use(ext.Middleware())
//
// Handlers log through named loggers obtained from the extension:
//
//	log := ext.Logger("app")
//	log.InfoContext(r.Context(), "order created", slog.String("order_id", id))
//
// # Queueing
//
// [Extension.Configure] binds destination handlers to named loggers from a
// YAML/JSON source (or a map, for programmatic configuration).
// [Extension.InstallQueueing] then reroutes chosen loggers through
// queue/listener pairs; configuration must come first, since queueing moves
// whatever destinations configuration set up behind the listener.
//
// [Extension.StopListeners] closes every queue and blocks until all buffered
// records have been emitted, so it is safe to call during shutdown without
// losing log lines.
//
// # Request Logging
//
// When enabled, the middleware emits one line per request, formatted from a
// template over request data:
//
//	logpipe.WithRequestLogging(),
//	logpipe.WithRequestMessageTemplate("{method} {path} - {status_code}"),
//
// Placeholders resolve from the request environ, URL fields, response status,
// execution time, and session values ({session.user_id}). Literal braces are
// written as {{/}}.
package logpipe
