// Package logger extends log/slog with context-extracted attributes and
// optional Sentry error reporting.
//
// A ContextExtractor pulls a request-scoped value out of a context.Context at
// log time. Extraction runs inside Handle, so it works both on the request
// goroutine (live request scope in context) and on queue listener goroutines,
// where the context is reactivated from the snapshot attached to the record
// before it crossed the goroutine boundary.
//
//	log := logger.New(extractors...)
//	log.InfoContext(ctx, "order created", slog.String("order_id", id))
//
// NewWithSentry mirrors New but fans records out to Sentry as well. If the DSN
// is empty or initialization fails it degrades to stdout-only logging, so the
// same construction path is safe in development.
package logger
