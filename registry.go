package pointer

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps actor ids to actors for one document.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Actor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Actor)}
}

// Register adds a. Ids must be unique within a registry.
func (r *Registry) Register(a *Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID()]; exists {
		return fmt.Errorf("actor %q already registered", a.ID())
	}
	r.byID[a.ID()] = a
	return nil
}

// Get returns the actor with the given id.
func (r *Registry) Get(id string) (*Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("actor %q not found", id)
	}
	return a, nil
}

// Remove forgets the actor with the given id and returns it.
func (r *Registry) Remove(id string) (*Actor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	delete(r.byID, id)
	return a, ok
}

// List returns every registered actor ordered by id.
func (r *Registry) List() []*Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Actor, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of registered actors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
