package internal

import "errors"

var (
	// ErrNoActiveContext is returned by Capture when no request scope (or
	// reactivated snapshot) is present on the context.
	ErrNoActiveContext = errors.New("logpipe: no active request context")

	// ErrNoRequestContext is returned by ResolveSnapshot when neither the
	// envelope nor the ambient context carries request state.
	ErrNoRequestContext = errors.New("logpipe: no request context on record or ambient context")

	// ErrNotConfigured is returned by InstallQueueing when Configure has not
	// run yet. Configuration must precede queueing so the destination
	// handlers being rebound behind the queue are the configured ones.
	ErrNotConfigured = errors.New("logpipe: extension is not configured")

	// ErrDuplicateQueueName is returned when a logger name appears twice in a
	// queueing request, or is already routed through a queue.
	ErrDuplicateQueueName = errors.New("logpipe: logger already queued")

	// ErrUnknownPlaceholder is returned when a message template references a
	// key absent from the request data map.
	ErrUnknownPlaceholder = errors.New("logpipe: unknown template placeholder")
)
