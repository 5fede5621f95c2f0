package internal

import (
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/logpipe/pkg/logcfg"
	"github.com/dmitrymomot/logpipe/pkg/logger"
	"github.com/dmitrymomot/logpipe/pkg/queue"
)

// DefaultLoggerName is the logger used for request lines when no explicit
// logger name is configured.
const DefaultLoggerName = "app"

// Configurator loads a logging-configuration source and binds the resulting
// destination handlers onto the registry. The default is logcfg.Configure;
// hosts with their own configuration format substitute a function value here
// instead of any string-based class loading.
type Configurator func(reg *logcfg.Registry, source any) error

// HandlerFactory builds the producer-side handler for one queued logger.
type HandlerFactory func(q *queue.Queue[Envelope], fallback *slog.Logger) slog.Handler

// ListenerFactory builds the consumer for one queued logger over its
// destination handlers.
type ListenerFactory func(q *queue.Queue[Envelope], handlers []slog.Handler, fallback *slog.Logger) *Listener

// SessionFunc exposes the host application's session as a read-only map for
// snapshots and the request log line. May return nil.
type SessionFunc func(r *http.Request) map[string]any

// Extension wires logging configuration, per-logger queueing, and per-request
// log lines into one application instance. All state is explicit on the
// struct: create one Extension per application, no global registries.
//
// Lifecycle: New → Configure → InstallQueueing (optional) → StartListeners →
// serve traffic through Middleware → StopListeners on shutdown. Configure
// must run before InstallQueueing; queueing rebinds whatever destination
// handlers configuration set up, so the reverse order would queue into
// nothing.
type Extension struct {
	registry      *logcfg.Registry
	listeners     *ListenerRegistry
	configurator  Configurator
	handlerFac    HandlerFactory
	listenerFac   ListenerFactory
	sessionFunc   SessionFunc
	fallback      *slog.Logger
	requestLog    requestLogConfig
	defaultLogger string
	configured    bool
}

// NewExtension creates an extension with the given options.
func NewExtension(opts ...Option) *Extension {
	e := &Extension{
		registry:      logcfg.NewRegistry(),
		listeners:     NewListenerRegistry(),
		configurator:  logcfg.Configure,
		fallback:      logger.NewNope(),
		requestLog:    defaultRequestLogConfig(),
		defaultLogger: DefaultLoggerName,
	}
	e.handlerFac = func(q *queue.Queue[Envelope], fallback *slog.Logger) slog.Handler {
		return NewQueueHandler(q, slog.LevelDebug, fallback)
	}
	e.listenerFac = NewListener

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the named-logger registry.
func (e *Extension) Registry() *logcfg.Registry { return e.registry }

// Logger returns the named logger, creating it if needed.
func (e *Extension) Logger(name string) *slog.Logger { return e.registry.Logger(name) }

// Listeners returns the listener registry.
func (e *Extension) Listeners() *ListenerRegistry { return e.listeners }

// Configure loads the logging configuration source through the configurator
// strategy. A nil source marks the extension configured without loading
// anything (the host configured loggers by hand). Must precede
// InstallQueueing.
func (e *Extension) Configure(source any) error {
	if source != nil {
		if err := e.configurator(e.registry, source); err != nil {
			return err
		}
	}
	e.configured = true
	return nil
}

// InstallQueueing reroutes each named logger through its own queue, handler,
// and listener triple. Destination handlers bound during configuration move
// behind the listener; the logger itself is rebound to the queue handler
// alone, so every record takes exactly one path to each destination.
//
// The name list is validated up front: a duplicate name, or a name already
// queued, fails with ErrDuplicateQueueName and installs nothing. When
// startImmediately is true every new listener is started.
func (e *Extension) InstallQueueing(names []string, startImmediately bool) error {
	if !e.configured {
		return ErrNotConfigured
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || e.listeners.Has(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateQueueName, name)
		}
		seen[name] = true
	}

	for _, name := range names {
		q := queue.New[Envelope]()
		dest := e.registry.Handlers(name)
		listener := e.listenerFac(q, dest, e.fallback)
		e.registry.SetHandlers(name, e.handlerFac(q, e.fallback))
		e.listeners.Add(name, listener)
	}

	if startImmediately {
		e.StartListeners()
	}
	return nil
}

// StartListeners starts every registered listener. Idempotent.
func (e *Extension) StartListeners() {
	for _, l := range e.listeners.All() {
		l.Start()
	}
}

// StopListeners stops every registered listener concurrently and blocks
// until all queues are drained. Idempotent and safe during application
// shutdown, including for listeners that were never started.
func (e *Extension) StopListeners() {
	var g errgroup.Group
	for _, l := range e.listeners.All() {
		g.Go(func() error {
			l.Stop()
			return nil
		})
	}
	_ = g.Wait()
}

// Apply drives the full initialization sequence from loaded settings:
// configure, install queueing (listeners started), enable request logging.
func (e *Extension) Apply(s Settings) error {
	if s.Source != "" {
		if err := e.Configure(s.Source); err != nil {
			return err
		}
	} else {
		e.configured = true
	}

	if len(s.QueueNames) > 0 {
		if err := e.InstallQueueing(s.QueueNames, true); err != nil {
			return err
		}
	}

	if s.RequestLogging.Enabled {
		level, err := logcfg.ParseLevel(s.RequestLogging.Level)
		if err != nil {
			return fmt.Errorf("logpipe: request log level: %w", err)
		}
		tmpl := s.RequestLogging.Template
		if tmpl == "" {
			tmpl = DefaultMessageTemplate
		}
		e.requestLog = requestLogConfig{
			enabled:  true,
			logger:   s.RequestLogging.Logger,
			level:    level,
			template: tmpl,
		}
	}
	return nil
}
