package engine

import (
	"fmt"
	"strings"
	"sync"
)

// Registry stores engines by name. It is populated once at start up; the Set
// returned by Select or All is what the rest of the worker reads from.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Register adds an engine by its Name(). Names are compared case-insensitively
// so the selector can never see two candidates for one token.
func (r *Registry) Register(e Engine) error {
	if e == nil {
		return fmt.Errorf("engine: engine is required")
	}
	name := strings.TrimSpace(e.Name())
	if name == "" {
		return fmt.Errorf("engine: engine name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := normaliseToken(name)
	if _, exists := r.engines[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	r.engines[key] = e
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(e Engine) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Get retrieves an engine by name, ignoring case.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[normaliseToken(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Has reports whether an engine is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.engines[normaliseToken(name)]
	return ok
}

// List returns the sorted engine names as registered.
func (r *Registry) List() []string {
	return r.All().Names()
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// All returns every registered engine as a Set.
func (r *Registry) All() Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	return newSet(engines)
}
