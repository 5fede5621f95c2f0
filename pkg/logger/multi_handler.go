package logger

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler fans one record out to several destination handlers. Each
// destination applies its own level; a failing destination does not stop
// delivery to the rest.
type multiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler combines destination handlers into one. Records are cloned
// per destination, and Handle returns the destinations' errors joined, so one
// broken output never silences the others.
func NewMultiHandler(handlers ...slog.Handler) slog.Handler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, dest := range h.handlers {
		if dest.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, dest := range h.handlers {
		if !dest.Enabled(ctx, rec.Level) {
			continue
		}
		if err := dest.Handle(ctx, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		handlers[i] = dest.WithAttrs(attrs)
	}
	return NewMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		handlers[i] = dest.WithGroup(name)
	}
	return NewMultiHandler(handlers...)
}
