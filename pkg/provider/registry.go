package provider

import (
	"fmt"
	"sync"
)

// Factory builds a RecordStore from backend settings.
type Factory func(settings Settings) (RecordStore, error)

// Registry maps provider types to their RecordStore factories.
// Factories are registered once at startup; lookups are safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// RegisterFactory registers a factory for a provider type.
func (r *Registry) RegisterFactory(typeName string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = factory
}

// Types returns the registered provider types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	return types
}

// Open builds a RecordStore for the given settings. It fails with
// UnsupportedTypeError when no factory is registered for settings.Type.
func (r *Registry) Open(settings Settings) (RecordStore, error) {
	r.mu.RLock()
	factory, ok := r.factories[settings.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedTypeError{ProviderType: settings.Type}
	}

	store, err := factory(settings)
	if err != nil {
		return nil, fmt.Errorf("opening provider %s: %w", settings.Name, err)
	}
	return store, nil
}
