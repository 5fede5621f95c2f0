package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/logpipe/pkg/queue"
)

// Envelope is the unit carried across the goroutine boundary: a cloned log
// record plus the request snapshot captured on the producer side, if any.
type Envelope struct {
	Record   slog.Record
	Snapshot *Snapshot
}

// QueueHandler is a slog.Handler that hands records off to a queue instead of
// emitting them in-line. Immediately before enqueueing — still on the
// producer goroutine, where the request is alive — it captures a request
// snapshot and attaches it to the envelope. Capturing lazily on the consumer
// side would be incorrect: by then the request may be torn down.
type QueueHandler struct {
	queue    *queue.Queue[Envelope]
	fallback *slog.Logger
	level    slog.Leveler
	attrs    []slog.Attr
	groups   []string
}

// NewQueueHandler creates a handler pushing onto q. Records below level are
// dropped early (destination handlers still apply their own levels on the
// consumer side). Push failures are reported to fallback.
func NewQueueHandler(q *queue.Queue[Envelope], level slog.Leveler, fallback *slog.Logger) *QueueHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	if fallback == nil {
		fallback = slog.Default()
	}
	return &QueueHandler{queue: q, level: level, fallback: fallback}
}

func (h *QueueHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle prepares an envelope and pushes it. The push never blocks; a push
// onto a closed queue is reported to the fallback channel and the record is
// dropped rather than panicking the caller.
func (h *QueueHandler) Handle(ctx context.Context, rec slog.Record) error {
	env := h.prepare(ctx, rec)
	if err := h.queue.Push(env); err != nil {
		h.fallback.LogAttrs(context.Background(), slog.LevelError,
			"dropping log record: queue closed",
			slog.String("msg", rec.Message))
		return err
	}
	return nil
}

// prepare clones the record, applies accumulated attrs, and attaches the
// current request snapshot when one is active. Records emitted outside any
// request scope travel without a snapshot; that is not an error.
func (h *QueueHandler) prepare(ctx context.Context, rec slog.Record) Envelope {
	out := rec.Clone()
	if len(h.attrs) > 0 {
		out.AddAttrs(h.attrs...)
	}

	env := Envelope{Record: out}
	if snap, err := Capture(ctx); err == nil {
		env.Snapshot = snap
	}
	return env
}

func (h *QueueHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), wrapAttrGroups(h.groups, attrs)...)
	return &h2
}

func (h *QueueHandler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

// wrapAttrGroups nests attrs under the open group path, innermost last.
func wrapAttrGroups(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 || len(attrs) == 0 {
		return attrs
	}
	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}
	return attrs
}
