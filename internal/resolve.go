package internal

import "context"

// ResolveSnapshot yields the request snapshot for an envelope being emitted.
// Resolution order: the snapshot attached to the envelope, then the ambient
// request context on ctx. Fails with ErrNoRequestContext when both are
// absent — there is no sensible default request to substitute.
func ResolveSnapshot(ctx context.Context, env *Envelope) (*Snapshot, error) {
	if env != nil && env.Snapshot != nil {
		return env.Snapshot, nil
	}
	if snap, err := Capture(ctx); err == nil {
		return snap, nil
	}
	return nil, ErrNoRequestContext
}

// WithResolvedContext resolves the request snapshot for env and runs fn with
// a context reactivated from it. The reactivated context is valid only for
// the duration of fn; errors from resolution and fn propagate unchanged.
func WithResolvedContext(ctx context.Context, env *Envelope, fn func(ctx context.Context, snap *Snapshot) error) error {
	snap, err := ResolveSnapshot(ctx, env)
	if err != nil {
		return err
	}
	return fn(snap.Reactivate(ctx), snap)
}
