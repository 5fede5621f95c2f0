// Package internal implements the queued, context-propagating logging
// pipeline behind the public logpipe package: the per-request scope and its
// immutable snapshot, the context-aware queue handler, the per-logger queue
// listener, and the extension coordinator that wires configuration, queueing,
// and per-request log lines into an application's request lifecycle.
package internal
