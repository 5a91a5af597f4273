package keystore

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	keys   map[string]KeyRecord
	writes int
}

// NewMemoryRepository builds an in-memory key store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{keys: make(map[string]KeyRecord)}
}

func (r *memoryRepository) Put(_ context.Context, record KeyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[record.ID] = record
	r.writes++
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (KeyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.keys[id]
	if !ok {
		return KeyRecord{}, ErrNotFound
	}
	return record, nil
}

func (r *memoryRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, id)
	r.writes++
	return nil
}

// WriteCount reports how many mutating calls the repository has seen.
// Test helper for asserting that decoy issuance persists nothing.
func WriteCount(r Repository) int {
	mem, ok := r.(*memoryRepository)
	if !ok {
		return 0
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	return mem.writes
}
