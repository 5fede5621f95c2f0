package internal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// recordSink is a slog.Handler collecting every record and its emission
// context for later assertions. Safe for concurrent use.
type recordSink struct {
	mu      sync.Mutex
	records []slog.Record
	ctxs    []context.Context
}

func (s *recordSink) Enabled(context.Context, slog.Level) bool { return true }

func (s *recordSink) Handle(ctx context.Context, rec slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec.Clone())
	s.ctxs = append(s.ctxs, ctx)
	return nil
}

func (s *recordSink) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *recordSink) WithGroup(string) slog.Handler      { return s }

func (s *recordSink) Records() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]slog.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *recordSink) Contexts() []context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]context.Context, len(s.ctxs))
	copy(out, s.ctxs)
	return out
}

func (s *recordSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]string, len(s.records))
	for i, r := range s.records {
		msgs[i] = r.Message
	}
	return msgs
}

// failingHandler always returns an error from Handle.
type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errHandlerBroken }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h failingHandler) WithGroup(string) slog.Handler           { return h }

// panickingHandler panics from Handle.
type panickingHandler struct{}

func (panickingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (panickingHandler) Handle(context.Context, slog.Record) error {
	panic("handler exploded")
}
func (h panickingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h panickingHandler) WithGroup(string) slog.Handler      { return h }

var errHandlerBroken = errors.New("handler broken")
