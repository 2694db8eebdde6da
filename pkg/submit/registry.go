package submit

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry stores handlers by profile name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*Handler),
	}
}

// Register adds a handler by its Name(). Duplicate names return an error.
func (r *Registry) Register(handler *Handler) error {
	if handler == nil {
		return fmt.Errorf("submit: handler is required")
	}
	name := handler.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("submit: handler %q already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(handler *Handler) {
	if err := r.Register(handler); err != nil {
		panic(err)
	}
}

// Get retrieves a handler by profile name.
func (r *Registry) Get(name string) (*Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("submit: handler %q not found", name)
	}
	return handler, nil
}

// List returns the registered profile names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a handler is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handlers[name]
	return ok
}

// Submit dispatches ev to the handler registered under name.
func (r *Registry) Submit(ctx context.Context, name string, ev Event) (Result, error) {
	handler, err := r.Get(name)
	if err != nil {
		if ev != nil {
			ev.PreventDefault()
		}
		return Result{Kind: KindError}, err
	}
	return handler.Submit(ctx, ev)
}
