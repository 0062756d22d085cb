package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

// Repository is owner-scoped throughout: Get, Update and Delete only
// touch rows belonging to the given user.
type Repository interface {
	ListByUser(userID int) ([]Address, error)
	Get(id int, userID int) (Address, error)
	Create(a Address) (Address, error)
	Update(a Address) (Address, error)
	Delete(id int, userID int) error
}

type InMemoryRepository struct {
	mu        sync.Mutex
	nextID    int
	addresses map[int]Address
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, addresses: make(map[int]Address)}
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Get(id int, userID int) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return Address{}, ErrNotFound
	}
	return a, nil
}

func (r *InMemoryRepository) Create(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.addresses[a.ID] = a
	return a, nil
}

func (r *InMemoryRepository) Update(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.addresses[a.ID]
	if !ok || existing.UserID != a.UserID {
		return Address{}, ErrNotFound
	}
	r.addresses[a.ID] = a
	return a, nil
}

func (r *InMemoryRepository) Delete(id int, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return ErrNotFound
	}
	delete(r.addresses, id)
	return nil
}
