package warehouse

import (
	"errors"
	"sort"
	"sync"

	"github.com/yassirmk/cleanshop-backend/internal/product"
)

var ErrReservationTooLarge = errors.New("release exceeds reserved quantity")

// Repository spreads reservations across warehouses. Every mutation
// keeps the product's aggregate stock column equal to the sum of its
// warehouse quantities, inside the same transaction.
type Repository interface {
	ListByProduct(productID int) ([]Stock, error)
	// Reserve holds qty units for a product, drawing from the
	// warehouses with the most available units first. Fails with
	// product.ErrInsufficientStock when the total available is short.
	Reserve(productID int, qty int) error
	// Release returns qty previously reserved units.
	Release(productID int, qty int) error
	// Confirm turns qty reserved units into a real decrement.
	Confirm(productID int, qty int) error
}

type InMemoryRepository struct {
	mu     sync.Mutex
	stocks []Stock
	// aggregate mirror of products.stock, keyed by product id
	totals map[int]int
}

func NewInMemoryRepository(seed []Stock) *InMemoryRepository {
	r := &InMemoryRepository{stocks: seed, totals: make(map[int]int)}
	for _, s := range seed {
		r.totals[s.ProductID] += s.Quantity
	}
	return r
}

// ProductStock exposes the aggregate mirror for assertions in tests.
func (r *InMemoryRepository) ProductStock(productID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totals[productID]
}

func (r *InMemoryRepository) ListByProduct(productID int) ([]Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Stock, 0)
	for _, s := range r.stocks {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Reserve(productID int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.byAvailable(productID)
	available := 0
	for _, i := range idx {
		available += r.stocks[i].Available()
	}
	if available < qty {
		return product.ErrInsufficientStock
	}

	remaining := qty
	for _, i := range idx {
		if remaining == 0 {
			break
		}
		take := r.stocks[i].Available()
		if take > remaining {
			take = remaining
		}
		r.stocks[i].Reserved += take
		remaining -= take
	}
	r.resync(productID)
	return nil
}

func (r *InMemoryRepository) Release(productID int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reserved := 0
	for _, s := range r.stocks {
		if s.ProductID == productID {
			reserved += s.Reserved
		}
	}
	if reserved < qty {
		return ErrReservationTooLarge
	}

	remaining := qty
	for i := range r.stocks {
		if remaining == 0 {
			break
		}
		if r.stocks[i].ProductID != productID || r.stocks[i].Reserved == 0 {
			continue
		}
		take := r.stocks[i].Reserved
		if take > remaining {
			take = remaining
		}
		r.stocks[i].Reserved -= take
		remaining -= take
	}
	r.resync(productID)
	return nil
}

func (r *InMemoryRepository) Confirm(productID int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reserved := 0
	for _, s := range r.stocks {
		if s.ProductID == productID {
			reserved += s.Reserved
		}
	}
	if reserved < qty {
		return ErrReservationTooLarge
	}

	remaining := qty
	for i := range r.stocks {
		if remaining == 0 {
			break
		}
		if r.stocks[i].ProductID != productID || r.stocks[i].Reserved == 0 {
			continue
		}
		take := r.stocks[i].Reserved
		if take > remaining {
			take = remaining
		}
		r.stocks[i].Reserved -= take
		r.stocks[i].Quantity -= take
		remaining -= take
	}
	r.resync(productID)
	return nil
}

func (r *InMemoryRepository) byAvailable(productID int) []int {
	idx := make([]int, 0)
	for i, s := range r.stocks {
		if s.ProductID == productID {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return r.stocks[idx[a]].Available() > r.stocks[idx[b]].Available()
	})
	return idx
}

func (r *InMemoryRepository) resync(productID int) {
	total := 0
	for _, s := range r.stocks {
		if s.ProductID == productID {
			total += s.Quantity
		}
	}
	r.totals[productID] = total
}
