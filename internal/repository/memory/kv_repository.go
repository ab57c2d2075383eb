package memory

import (
	"context"
	"sync"

	"campus-dashboard/internal/repository"
)

// KeyValueRepository is an in-memory repository.KeyValue used in tests and
// when persistence is disabled.
type KeyValueRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKeyValueRepository() *KeyValueRepository {
	return &KeyValueRepository{values: make(map[string]string)}
}

func (r *KeyValueRepository) Init(ctx context.Context) error { return nil }

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", repository.ErrKeyNotFound
	}
	return value, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
