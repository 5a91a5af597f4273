package registry

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	identities map[string]Identity
}

// NewMemoryRepository builds an in-memory identity store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{identities: make(map[string]Identity)}
}

func (r *memoryRepository) Put(_ context.Context, identity Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[identity.ID] = identity
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return identity, nil
}

func (r *memoryRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.identities, id)
	return nil
}
