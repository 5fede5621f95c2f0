package logcfg

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/logpipe/pkg/logger"
)

// swapHandler routes records to an atomically swappable set of destination
// handlers. Derived handlers created by WithAttrs/WithGroup keep delegating to
// the same swapHandler, so rebinding destinations reaches every logger value
// already handed out. Fan-out itself is the logger package's multi handler,
// rebuilt on each rebind.
type swapHandler struct {
	cur atomic.Pointer[fanout]
}

type fanout struct {
	handlers []slog.Handler
	combined slog.Handler
}

func newSwapHandler() *swapHandler {
	h := &swapHandler{}
	h.cur.Store(&fanout{combined: logger.NewMultiHandler()})
	return h
}

// Handlers returns the current destination set.
func (h *swapHandler) Handlers() []slog.Handler {
	cur := h.cur.Load()
	if len(cur.handlers) == 0 {
		return nil
	}
	out := make([]slog.Handler, len(cur.handlers))
	copy(out, cur.handlers)
	return out
}

// SetHandlers replaces the destination set.
func (h *swapHandler) SetHandlers(handlers []slog.Handler) {
	set := make([]slog.Handler, len(handlers))
	copy(set, handlers)
	h.cur.Store(&fanout{handlers: set, combined: logger.NewMultiHandler(set...)})
}

func (h *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.cur.Load().combined.Enabled(ctx, level)
}

func (h *swapHandler) Handle(ctx context.Context, rec slog.Record) error {
	return h.cur.Load().combined.Handle(ctx, rec)
}

func (h *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedHandler{base: h, attrs: attrs}
}

func (h *swapHandler) WithGroup(name string) slog.Handler {
	return &derivedHandler{base: h, groups: []string{name}}
}

// derivedHandler carries attrs and open groups accumulated via With/WithGroup
// while routing records through the shared swapHandler.
type derivedHandler struct {
	base   *swapHandler
	attrs  []slog.Attr
	groups []string
}

func (h *derivedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *derivedHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	out.AddAttrs(h.attrs...)

	if len(h.groups) == 0 {
		rec.Attrs(func(a slog.Attr) bool {
			out.AddAttrs(a)
			return true
		})
		return h.base.Handle(ctx, out)
	}

	var grouped []slog.Attr
	rec.Attrs(func(a slog.Attr) bool {
		grouped = append(grouped, a)
		return true
	})
	out.AddAttrs(wrapGroups(h.groups, grouped)...)
	return h.base.Handle(ctx, out)
}

func (h *derivedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, wrapGroups(h.groups, attrs)...)
	return &derivedHandler{base: h.base, attrs: merged, groups: h.groups}
}

func (h *derivedHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &derivedHandler{base: h.base, attrs: h.attrs, groups: groups}
}

// wrapGroups nests attrs under the open group path, innermost last.
func wrapGroups(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 || len(attrs) == 0 {
		return attrs
	}
	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}
	return attrs
}
