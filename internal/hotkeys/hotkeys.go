// Package hotkeys maps key names to ordered handler chains.
package hotkeys

import "sync"

// Handler reacts to a key press. Returning false stops the chain.
type Handler func() bool

// Registry holds the handlers of one view.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

// Register appends handler to the chain of key.
func (r *Registry) Register(key string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = append(r.handlers[key], handler)
}

// Dispatch calls the handlers of key in registration order until one returns
// false. It reports whether any handler ran.
func (r *Registry) Dispatch(key string) bool {
	r.mu.RLock()
	chain := make([]Handler, len(r.handlers[key]))
	copy(chain, r.handlers[key])
	r.mu.RUnlock()

	for _, h := range chain {
		if !h() {
			break
		}
	}
	return len(chain) > 0
}

// Has reports whether key has handlers.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[key]) > 0
}
