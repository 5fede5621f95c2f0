package logcfg

import (
	"log/slog"
	"sync"
)

// Registry maps logger names to loggers with swappable destination handlers.
// Loggers are created on demand; a logger obtained before configuration picks
// up destinations rebound later because it routes through an indirection.
type Registry struct {
	mu      sync.RWMutex
	loggers map[string]*namedLogger
}

type namedLogger struct {
	target *swapHandler
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*namedLogger)}
}

// Logger returns the logger registered under name, creating it if needed.
// A fresh logger has no destinations and discards records until handlers are
// bound via SetHandlers or a configuration load.
func (r *Registry) Logger(name string) *slog.Logger {
	return r.named(name).logger
}

// Handlers returns the destination handlers currently bound to name.
// Returns nil when the logger does not exist or has no destinations.
func (r *Registry) Handlers(name string) []slog.Handler {
	r.mu.RLock()
	nl, ok := r.loggers[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return nl.target.Handlers()
}

// SetHandlers rebinds the destination handlers for name, creating the logger
// if needed. The previous handler set is replaced wholesale.
func (r *Registry) SetHandlers(name string, handlers ...slog.Handler) {
	r.named(name).target.SetHandlers(handlers)
}

// Names returns the names of all registered loggers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}

func (r *Registry) named(name string) *namedLogger {
	r.mu.RLock()
	nl, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return nl
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if nl, ok = r.loggers[name]; ok {
		return nl
	}

	target := newSwapHandler()
	nl = &namedLogger{
		target: target,
		logger: slog.New(target).With(slog.String("logger", name)),
	}
	r.loggers[name] = nl
	return nl
}
