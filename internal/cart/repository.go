package cart

import (
	"errors"
	"sync"
	"time"
)

var ErrLineNotFound = errors.New("cart line not found")

// Repository persists cart lines. Merge arithmetic lives in the
// service; SetQuantity stores an absolute quantity, creating the line
// when the owner has none for that product.
type Repository interface {
	LinesByOwner(owner Owner) ([]Line, error)
	GetLine(owner Owner, lineID int) (Line, error)
	SetQuantity(owner Owner, productID int, qty int) (Line, error)
	DeleteLine(owner Owner, lineID int) error
	// MergeLine moves one line to a new owner in a single step: the
	// target owner's line for the same product is set to qty (created
	// when absent) and the source line is deleted. Either both happen
	// or neither does.
	MergeLine(from Owner, lineID int, to Owner, qty int) error
	Clear(owner Owner) error
}

// InMemoryRepository backs service tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	lines  []Line
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) owns(l Line, owner Owner) bool {
	if owner.UserID > 0 {
		return l.UserID != nil && *l.UserID == owner.UserID
	}
	return l.SessionID != nil && *l.SessionID == owner.SessionID
}

func (r *InMemoryRepository) LinesByOwner(owner Owner) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, 0)
	for _, l := range r.lines {
		if r.owns(l, owner) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetLine(owner Owner, lineID int) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if l.ID == lineID && r.owns(l, owner) {
			return l, nil
		}
	}
	return Line{}, ErrLineNotFound
}

func (r *InMemoryRepository) SetQuantity(owner Owner, productID int, qty int) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i, l := range r.lines {
		if l.ProductID == productID && r.owns(l, owner) {
			r.lines[i].Quantity = qty
			r.lines[i].UpdatedAt = now
			return r.lines[i], nil
		}
	}
	l := Line{ID: r.nextID, ProductID: productID, Quantity: qty, CreatedAt: now, UpdatedAt: now}
	r.nextID++
	if owner.UserID > 0 {
		uid := owner.UserID
		l.UserID = &uid
	} else {
		sid := owner.SessionID
		l.SessionID = &sid
	}
	r.lines = append(r.lines, l)
	return l, nil
}

func (r *InMemoryRepository) DeleteLine(owner Owner, lineID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines {
		if l.ID == lineID && r.owns(l, owner) {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) MergeLine(from Owner, lineID int, to Owner, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src := -1
	for i, l := range r.lines {
		if l.ID == lineID && r.owns(l, from) {
			src = i
			break
		}
	}
	if src == -1 {
		return ErrLineNotFound
	}
	productID := r.lines[src].ProductID
	r.lines = append(r.lines[:src], r.lines[src+1:]...)

	now := time.Now()
	for i, l := range r.lines {
		if l.ProductID == productID && r.owns(l, to) {
			r.lines[i].Quantity = qty
			r.lines[i].UpdatedAt = now
			return nil
		}
	}
	l := Line{ID: r.nextID, ProductID: productID, Quantity: qty, CreatedAt: now, UpdatedAt: now}
	r.nextID++
	if to.UserID > 0 {
		uid := to.UserID
		l.UserID = &uid
	} else {
		sid := to.SessionID
		l.SessionID = &sid
	}
	r.lines = append(r.lines, l)
	return nil
}

func (r *InMemoryRepository) Clear(owner Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.lines[:0]
	for _, l := range r.lines {
		if !r.owns(l, owner) {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}
