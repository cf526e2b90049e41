// Package source defines the adapter interface for external knowledge sources
// and its concrete implementations.
package source

import (
	"context"
	"sort"
	"sync"

	"github.com/sells-group/answer-engine/internal/model"
)

// Adapter fetches one source's answer for a structured query. Implementations
// must be safe for concurrent use and must respect ctx cancellation by
// returning promptly with an error.
type Adapter interface {
	// Name returns the source identifier used in attributions and config.
	Name() string
	// Weight returns the source's reliability weight in [0,1].
	Weight() float64
	// Fetch returns the source's answer, or an error the orchestrator turns
	// into an error-tagged result. A nil result with nil error means the
	// source had nothing for this query.
	Fetch(ctx context.Context, query model.StructuredQuery) (*model.SourceResult, error)
}

// Registry manages the enabled source adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter to the registry.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get returns an adapter by name, or nil if not registered.
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[name]
}

// All returns every registered adapter, sorted by name for determinism.
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
