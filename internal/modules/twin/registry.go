package twin

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns one Store per user. Options are applied to every store it creates.
type Registry struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store
	opts   []Option
}

func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		stores: map[uuid.UUID]*Store{},
		opts:   opts,
	}
}

// For returns the user's store, creating an empty one on first use.
func (r *Registry) For(userID uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := NewStore(r.opts...)
	r.stores[userID] = s
	return s
}

func (r *Registry) Lookup(userID uuid.UUID) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[userID]
	return s, ok
}

// Drop forgets the user's twin. Used on logout, which ends the session.
// It returns after any write already running on the store has been delivered.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	s, ok := r.stores[userID]
	delete(r.stores, userID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
