package scene

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// Registry maps surface ids to scenes. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Scene
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Scene)}
}

// NewID returns a fresh surface id of the form chart_<uuid>.
func NewID() string {
	return "chart_" + uuid.NewString()
}

// Mount registers s under id. A surface has exactly one owner, so mounting
// an id that is already taken fails.
func (r *Registry) Mount(id string, s Scene) error {
	if err := errors.ValidateSurfaceID(id); err != nil {
		return err
	}
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "surface %s: scene is nil", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.surfaces[id]; taken {
		return errors.New(errors.ErrCodeInvalidInput, "surface %s is already mounted", id)
	}
	r.surfaces[id] = s
	return nil
}

// Lookup returns the scene mounted under id.
func (r *Registry) Lookup(id string) (Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSurfaceNotFound, "surface %s not found", id)
	}
	return s, nil
}

// Remove unregisters id and reports whether it was mounted.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.surfaces[id]
	delete(r.surfaces, id)
	return ok
}

// IDs returns the mounted ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.surfaces))
	for id := range r.surfaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of mounted surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.surfaces)
}
