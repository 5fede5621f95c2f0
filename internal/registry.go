package internal

// ListenerRegistry maps queued logger names to their listeners, in
// installation order. It is mutated only during single-threaded
// initialization and shutdown; concurrent mutation is not supported.
type ListenerRegistry struct {
	order     []string
	listeners map[string]*Listener
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{listeners: make(map[string]*Listener)}
}

// Add registers a listener under name.
func (r *ListenerRegistry) Add(name string, l *Listener) {
	if _, ok := r.listeners[name]; !ok {
		r.order = append(r.order, name)
	}
	r.listeners[name] = l
}

// Get returns the listener registered under name.
func (r *ListenerRegistry) Get(name string) (*Listener, bool) {
	l, ok := r.listeners[name]
	return l, ok
}

// Has reports whether a listener is registered under name.
func (r *ListenerRegistry) Has(name string) bool {
	_, ok := r.listeners[name]
	return ok
}

// Names returns the registered names in installation order.
func (r *ListenerRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered listeners.
func (r *ListenerRegistry) Len() int {
	return len(r.listeners)
}

// All returns the listeners in installation order.
func (r *ListenerRegistry) All() []*Listener {
	out := make([]*Listener, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.listeners[name])
	}
	return out
}
