package payment

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("payment not found")

type Repository interface {
	GetByID(id int) (Payment, error)
	GetByOrderID(orderID int) (Payment, error)
	// Save persists the mutable fields (status, transaction id, gateway
	// response, refund amount, lifecycle timestamps).
	Save(p Payment) error
}

type InMemoryRepository struct {
	mu       sync.Mutex
	payments map[int]Payment
}

func NewInMemoryRepository(seed []Payment) *InMemoryRepository {
	r := &InMemoryRepository{payments: make(map[int]Payment, len(seed))}
	for _, p := range seed {
		r.payments[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) GetByID(id int) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) GetByOrderID(orderID int) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) Save(p Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return ErrNotFound
	}
	r.payments[p.ID] = p
	return nil
}
