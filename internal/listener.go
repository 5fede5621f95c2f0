package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/logpipe/pkg/queue"
)

// Listener drains one queue on a dedicated goroutine and dispatches each
// record to the destination handlers captured at construction time. One
// queue, one handler, one listener — per queued logger name — so logger
// fan-out never delivers duplicate records through a shared consumer.
type Listener struct {
	queue    *queue.Queue[Envelope]
	handlers []slog.Handler
	fallback *slog.Logger
	started  atomic.Bool
	wg       sync.WaitGroup
}

// NewListener creates a listener over q emitting to handlers. Emission
// failures (handler errors and panics) are reported to fallback and never
// stop the drain loop.
func NewListener(q *queue.Queue[Envelope], handlers []slog.Handler, fallback *slog.Logger) *Listener {
	if fallback == nil {
		fallback = slog.Default()
	}
	return &Listener{queue: q, handlers: handlers, fallback: fallback}
}

// Start spawns the consumer goroutine. Idempotent: repeated calls never spawn
// a second consumer.
func (l *Listener) Start() {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	l.wg.Add(1)
	go l.run()
}

// Stop closes the queue and blocks until every queued record has been
// emitted and the consumer goroutine has exited. There is no timeout: records
// are drained, not dropped. Callers needing a bound should wrap Stop in their
// own goroutine. Safe to call from any goroutine, repeatedly, and on a
// listener that was never started.
func (l *Listener) Stop() {
	l.queue.Close()
	l.wg.Wait()
}

// Running reports whether the consumer goroutine has been started.
func (l *Listener) Running() bool {
	return l.started.Load()
}

// Handlers returns the destination handlers this listener emits to.
func (l *Listener) Handlers() []slog.Handler {
	out := make([]slog.Handler, len(l.handlers))
	copy(out, l.handlers)
	return out
}

func (l *Listener) run() {
	defer l.wg.Done()
	for {
		env, ok := l.queue.Pop()
		if !ok {
			return
		}
		l.emit(env)
	}
}

// emit dispatches one envelope to all destination handlers. The snapshot, if
// present, is reactivated into the emission context so context-extracting
// handlers resolve request attributes here, on the consumer goroutine, long
// after the original request may have ended.
func (l *Listener) emit(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			l.fallback.LogAttrs(context.Background(), slog.LevelError,
				"log handler panicked",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("msg", env.Record.Message))
		}
	}()

	ctx := context.Background()
	if env.Snapshot != nil {
		ctx = env.Snapshot.Reactivate(ctx)
	}

	for _, h := range l.handlers {
		if !h.Enabled(ctx, env.Record.Level) {
			continue
		}
		if err := h.Handle(ctx, env.Record.Clone()); err != nil {
			l.fallback.LogAttrs(context.Background(), slog.LevelError,
				"log handler failed",
				slog.Any("error", err),
				slog.String("msg", env.Record.Message))
		}
	}
}
