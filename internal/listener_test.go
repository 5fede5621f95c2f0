package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logpipe/pkg/logger"
	"github.com/dmitrymomot/logpipe/pkg/queue"
)

func TestListener(t *testing.T) {
	t.Parallel()

	t.Run("drains queued records to all handlers", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		sink1 := &recordSink{}
		sink2 := &recordSink{}
		l := NewListener(q, []slog.Handler{sink1, sink2}, logger.NewNope())

		for i := range 100 {
			require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, fmt.Sprintf("msg-%d", i))}))
		}
		l.Start()
		l.Stop()

		require.Len(t, sink1.Records(), 100)
		require.Len(t, sink2.Records(), 100)
		require.Equal(t, "msg-0", sink1.Messages()[0])
		require.Equal(t, "msg-99", sink1.Messages()[99])
	})

	t.Run("stop on empty queue returns promptly", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		l := NewListener(q, []slog.Handler{&recordSink{}}, logger.NewNope())
		l.Start()
		l.Stop()
	})

	t.Run("stop without start is safe", func(t *testing.T) {
		t.Parallel()

		l := NewListener(queue.New[Envelope](), nil, logger.NewNope())
		l.Stop()
		l.Stop()
	})

	t.Run("start is idempotent", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		sink := &recordSink{}
		l := NewListener(q, []slog.Handler{sink}, logger.NewNope())

		l.Start()
		l.Start()
		l.Start()
		require.True(t, l.Running())

		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "once")}))
		l.Stop()

		require.Equal(t, []string{"once"}, sink.Messages())
	})

	t.Run("stop blocks until the queue is drained", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		sink := &recordSink{}
		l := NewListener(q, []slog.Handler{sink}, logger.NewNope())

		for i := range 1000 {
			require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, fmt.Sprintf("m-%d", i))}))
		}
		l.Start()
		l.Stop()

		// Every record pushed before Stop must have been emitted.
		require.Len(t, sink.Records(), 1000)
	})

	t.Run("handler error does not stop the drain", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		fallbackSink := &recordSink{}
		sink := &recordSink{}
		l := NewListener(q, []slog.Handler{failingHandler{}, sink}, slog.New(fallbackSink))

		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "a")}))
		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "b")}))
		l.Start()
		l.Stop()

		require.Equal(t, []string{"a", "b"}, sink.Messages())
		require.Len(t, fallbackSink.Records(), 2)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		fallbackSink := &recordSink{}
		l := NewListener(q, []slog.Handler{panickingHandler{}}, slog.New(fallbackSink))

		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "kaboom")}))
		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "still alive")}))
		l.Start()
		l.Stop()

		require.Len(t, fallbackSink.Records(), 2)
	})

	t.Run("snapshot is reactivated into the emission context", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		sink := &recordSink{}
		l := NewListener(q, []slog.Handler{sink}, logger.NewNope())

		snap := newTestScope(t, http.MethodGet, "/emitted", nil).Snapshot()
		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelInfo, "m"), Snapshot: snap}))
		l.Start()
		l.Stop()

		ctxs := sink.Contexts()
		require.Len(t, ctxs, 1)
		got, ok := SnapshotFromContext(ctxs[0])
		require.True(t, ok)
		require.Same(t, snap, got)
	})

	t.Run("destination levels apply on the consumer side", func(t *testing.T) {
		t.Parallel()

		q := queue.New[Envelope]()
		sink := &recordSink{}
		leveled := &levelGate{min: slog.LevelWarn, next: sink}
		l := NewListener(q, []slog.Handler{leveled}, logger.NewNope())

		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelDebug, "dropped")}))
		require.NoError(t, q.Push(Envelope{Record: newRecord(slog.LevelError, "kept")}))
		l.Start()
		l.Stop()

		require.Equal(t, []string{"kept"}, sink.Messages())
	})
}

// levelGate filters records below min before delegating.
type levelGate struct {
	min  slog.Level
	next slog.Handler
}

func (g *levelGate) Enabled(_ context.Context, level slog.Level) bool { return level >= g.min }
func (g *levelGate) Handle(ctx context.Context, rec slog.Record) error {
	return g.next.Handle(ctx, rec)
}
func (g *levelGate) WithAttrs([]slog.Attr) slog.Handler { return g }
func (g *levelGate) WithGroup(string) slog.Handler      { return g }
