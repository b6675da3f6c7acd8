package explorer

import (
	"container/list"
	"sync"
)

// Factory builds the shell for a new session.
type Factory func(sessionID string) *Shell

// Registry keeps one shell per visitor session, evicting the least recently
// used session once max is exceeded.
type Registry struct {
	factory Factory
	max     int

	mu     sync.Mutex
	shells map[string]*list.Element
	order  *list.List // front = most recently used
}

type registryEntry struct {
	id    string
	shell *Shell
}

// NewRegistry creates a registry. max <= 0 means unbounded.
func NewRegistry(factory Factory, max int) *Registry {
	return &Registry{
		factory: factory,
		max:     max,
		shells:  make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the shell for id, creating it on first use.
func (r *Registry) Get(id string) *Shell {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.shells[id]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*registryEntry).shell
	}

	shell := r.factory(id)
	r.shells[id] = r.order.PushFront(&registryEntry{id: id, shell: shell})

	for r.max > 0 && r.order.Len() > r.max {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.shells, oldest.Value.(*registryEntry).id)
	}
	return shell
}

// Lookup returns the shell for id without creating one.
func (r *Registry) Lookup(id string) (*Shell, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.shells[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*registryEntry).shell, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
