package product

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable marks a product that exists but cannot be sold
	// (deactivated from the catalog).
	ErrUnavailable = errors.New("product unavailable")
	// ErrInsufficientStock marks a requested quantity that exceeds the
	// remaining stock where the clamp policy does not apply.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository provides catalog reads plus the stock ledger writes.
type Repository interface {
	List(activeOnly bool) ([]Product, error)
	ListByCategory(categoryID int) ([]Product, error)
	GetByID(id int) (Product, error)
	// DecreaseStock atomically subtracts qty when stock >= qty and
	// reports whether the subtraction was applied. Stock never goes
	// negative through this call.
	DecreaseStock(id int, qty int) (bool, error)
	// IncreaseStock adds qty back unconditionally (cancellation restock).
	IncreaseStock(id int, qty int) error
}

// InMemoryRepository backs service tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(activeOnly bool) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *InMemoryRepository) ListByCategory(categoryID int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range r.storage {
		if p.Active && p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) DecreaseStock(id int, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			if r.storage[i].Stock < qty {
				return false, nil
			}
			r.storage[i].Stock -= qty
			return true, nil
		}
	}
	return false, ErrNotFound
}

func (r *InMemoryRepository) IncreaseStock(id int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Stock += qty
			return nil
		}
	}
	return ErrNotFound
}
