package peer

import (
	"sort"
	"sync"
	"time"
)

// Registry is a thread-safe set of known peers, fed by transport callbacks.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	now   func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]*Node),
		now:   time.Now,
	}
}

// Upsert adds a node or refreshes its last-seen time. A non-empty name
// replaces the stored one. Returns true if the node was new.
func (r *Registry) Upsert(id, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.nodes[id]; ok {
		existing.LastSeen = r.now()
		if name != "" {
			existing.Name = name
		}
		return false
	}

	r.nodes[id] = &Node{ID: id, Name: name, LastSeen: r.now()}
	return true
}

// Remove drops a node. Returns true if it was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[id]; !ok {
		return false
	}
	delete(r.nodes, id)
	return true
}

// Has reports whether id is known.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[id]
	return ok
}

// Snapshot returns copies of all nodes ordered by id.
func (r *Registry) Snapshot() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of known nodes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
