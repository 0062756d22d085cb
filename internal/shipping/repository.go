package shipping

import "sync"

type Repository interface {
	List() ([]Zone, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	zones []Zone
}

func NewInMemoryRepository(seed []Zone) *InMemoryRepository {
	r := &InMemoryRepository{zones: make([]Zone, 0, len(seed))}
	r.zones = append(r.zones, seed...)
	return r
}

func (r *InMemoryRepository) List() ([]Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Zone, len(r.zones))
	copy(out, r.zones)
	return out, nil
}
