package review

import (
	"sync"
)

type Repository interface {
	Add(r Review) (Review, error)
	ListByProduct(productID int) ([]Review, error)
}

type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int
	reviews []Review
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Add(rev Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev.ID = r.nextID
	r.nextID++
	r.reviews = append(r.reviews, rev)
	return rev, nil
}

func (r *InMemoryRepository) ListByProduct(productID int) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			out = append(out, rev)
		}
	}
	return out, nil
}
