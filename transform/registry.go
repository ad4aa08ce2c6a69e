package transform

import (
	"sync"

	"medialib/domain/ports"
	"medialib/pkg/config"
)

// TransformerFactory builds a transformer instance for one job. The factory
// closes over the plugin's collaborators (storage, path strategy, external
// clients); name and config come from the job.
type TransformerFactory func(name string, cfg config.TransformerConfig) (ports.Transformer, error)

// Registry maps transformer identifiers to factories. Identifiers are bound
// at startup; resolving an unknown identifier is a configuration defect.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]TransformerFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]TransformerFactory)}
}

// Register binds an identifier to a factory, replacing any previous binding.
func (r *Registry) Register(id string, factory TransformerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
}

// New builds a transformer for the identifier. An unknown identifier returns
// an UnknownTransformerError, which callers treat as fatal.
func (r *Registry) New(id, name string, cfg config.TransformerConfig) (ports.Transformer, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownTransformerError{Name: id}
	}
	return factory(name, cfg)
}
