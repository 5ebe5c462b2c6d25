package gateway

import "sync"

// Registry holds registered listeners in registration order.
type Registry struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewRegistry creates a new listener registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make([]Listener, 0),
	}
}

// Register appends l to the registry. Listeners are notified in the order
// they were registered.
func (r *Registry) Register(l ...Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l...)
}

// Listeners returns a snapshot of all registered listeners.
func (r *Registry) Listeners() []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Listener, len(r.listeners))
	copy(result, r.listeners)
	return result
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// notify calls fn for every registered listener implementing L, in
// registration order, on the calling goroutine.
func notify[L any](r *Registry, fn func(L)) {
	for _, l := range r.Listeners() {
		if typed, ok := l.(L); ok {
			fn(typed)
		}
	}
}
