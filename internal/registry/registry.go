package registry

import (
	"sync"

	"github.com/angeloszaimis/model-health-monitor/internal/model"
)

// Entry is one catalog row used to populate the registry at startup.
type Entry struct {
	ID        string
	Name      string
	Preferred bool
}

// Registry holds the registered models keyed by id. Iteration order is
// registration order, and that order is the fallback search order.
type Registry struct {
	mutex  sync.RWMutex
	models map[string]*model.Model
	order  []string
}

func New() *Registry {
	return &Registry{
		models: make(map[string]*model.Model),
	}
}

// Initialize populates the registry from an ordered catalog. It is
// meant to be called exactly once at startup; entries with a duplicate
// id are skipped.
func (r *Registry) Initialize(catalog []Entry) {
	for _, entry := range catalog {
		r.Register(model.New(entry.ID, entry.Name, entry.Preferred))
	}
}

// Register adds a model to the registry, preserving insertion order.
// Returns false if a model with the same id is already registered.
func (r *Registry) Register(m *model.Model) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.models[m.ID()]; exists {
		return false
	}

	r.models[m.ID()] = m
	r.order = append(r.order, m.ID())
	return true
}

// Get returns the model with the given id.
func (r *Registry) Get(id string) (*model.Model, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	m, ok := r.models[id]
	return m, ok
}

// Models returns the registered models in registration order.
func (r *Registry) Models() []*model.Model {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*model.Model, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}

// List returns read-only snapshots of all models in registration
// order, safe for callers to inspect without touching live state.
func (r *Registry) List() []model.Snapshot {
	models := r.Models()

	out := make([]model.Snapshot, 0, len(models))
	for _, m := range models {
		out = append(out, m.Snapshot())
	}
	return out
}

// Remove deletes the model with the given id.
// Returns true if an entry existed and was deleted.
func (r *Registry) Remove(id string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.models[id]; !exists {
		return false
	}

	delete(r.models, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.order)
}
