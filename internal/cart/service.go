package cart

import (
	"fmt"

	"github.com/yassirmk/cleanshop-backend/internal/pricing"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

// Cart is the API view of an owner's lines plus the price breakdown.
type Cart struct {
	SessionID string         `json:"session_id,omitempty"`
	Items     []Item         `json:"items"`
	Totals    pricing.Totals `json:"totals"`
}

// Service owns the cart rules: one line per (owner, product), merges on
// add, quantities clamped to the remaining stock rather than rejected.
type Service struct {
	repo     Repository
	products product.ServiceInterface
	calc     pricing.Calculator
}

func NewService(repo Repository, products product.ServiceInterface, calc pricing.Calculator) *Service {
	return &Service{repo: repo, products: products, calc: calc}
}

// Get returns the owner's cart with totals.
func (s *Service) Get(owner Owner) (Cart, error) {
	if !owner.Valid() {
		return Cart{}, ErrLineNotFound
	}
	lines, err := s.repo.LinesByOwner(owner)
	if err != nil {
		return Cart{}, err
	}

	items := make([]Item, 0, len(lines))
	priceLines := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		p, err := s.products.GetByID(l.ProductID)
		if err != nil {
			if err == product.ErrNotFound {
				// product removed since the line was added; drop the line
				_ = s.repo.DeleteLine(owner, l.ID)
				continue
			}
			return Cart{}, err
		}
		items = append(items, Item{Line: l, Product: p})
		priceLines = append(priceLines, pricing.Line{UnitPrice: p.Price, Quantity: l.Quantity})
	}

	return Cart{SessionID: owner.SessionID, Items: items, Totals: s.calc.Totals(priceLines)}, nil
}

// Add merges qty into the owner's line for the product, creating the
// line when absent. The merged quantity is clamped to current stock.
// An inactive product or zero stock rejects the add outright.
func (s *Service) Add(owner Owner, productID int, qty int) (Cart, error) {
	if !owner.Valid() {
		return Cart{}, ErrLineNotFound
	}
	if qty <= 0 {
		return s.Get(owner)
	}

	p, err := s.products.GetByID(productID)
	if err != nil {
		return Cart{}, err
	}
	if !p.Active {
		return Cart{}, fmt.Errorf("%w: %s", product.ErrUnavailable, p.SKU)
	}
	if p.Stock == 0 {
		return Cart{}, fmt.Errorf("%w: %s", product.ErrInsufficientStock, p.SKU)
	}

	current := 0
	lines, err := s.repo.LinesByOwner(owner)
	if err != nil {
		return Cart{}, err
	}
	for _, l := range lines {
		if l.ProductID == productID {
			current = l.Quantity
			break
		}
	}

	merged := clamp(current+qty, p.Stock)
	if _, err := s.repo.SetQuantity(owner, productID, merged); err != nil {
		return Cart{}, err
	}
	return s.Get(owner)
}

// Update sets an absolute quantity on a line. Zero removes the line;
// anything above stock is clamped down to it.
func (s *Service) Update(owner Owner, lineID int, qty int) (Cart, error) {
	if !owner.Valid() {
		return Cart{}, ErrLineNotFound
	}
	line, err := s.repo.GetLine(owner, lineID)
	if err != nil {
		return Cart{}, err
	}
	if qty <= 0 {
		if err := s.repo.DeleteLine(owner, lineID); err != nil {
			return Cart{}, err
		}
		return s.Get(owner)
	}

	p, err := s.products.GetByID(line.ProductID)
	if err != nil {
		return Cart{}, err
	}
	clamped := clamp(qty, p.Stock)
	if clamped == 0 {
		if err := s.repo.DeleteLine(owner, lineID); err != nil {
			return Cart{}, err
		}
	} else if _, err := s.repo.SetQuantity(owner, line.ProductID, clamped); err != nil {
		return Cart{}, err
	}
	return s.Get(owner)
}

func (s *Service) Remove(owner Owner, lineID int) (Cart, error) {
	if !owner.Valid() {
		return Cart{}, ErrLineNotFound
	}
	if err := s.repo.DeleteLine(owner, lineID); err != nil {
		return Cart{}, err
	}
	return s.Get(owner)
}

func (s *Service) Clear(owner Owner) error {
	if !owner.Valid() {
		return ErrLineNotFound
	}
	return s.repo.Clear(owner)
}

// Migrate folds an anonymous session cart into a user's cart after
// login. Matching product lines merge (clamped to stock); the rest are
// re-owned. Each line moves in one repository step, so a failure
// mid-way leaves already-moved lines in place and the current line
// counted in exactly one cart.
func (s *Service) Migrate(sessionID string, userID int) error {
	if sessionID == "" || userID <= 0 {
		return ErrLineNotFound
	}
	sessionOwner := ForSession(sessionID)
	userOwner := ForUser(userID)

	sessionLines, err := s.repo.LinesByOwner(sessionOwner)
	if err != nil {
		return err
	}
	userLines, err := s.repo.LinesByOwner(userOwner)
	if err != nil {
		return err
	}
	existing := make(map[int]int, len(userLines))
	for _, l := range userLines {
		existing[l.ProductID] = l.Quantity
	}

	for _, l := range sessionLines {
		p, err := s.products.GetByID(l.ProductID)
		if err != nil {
			if err == product.ErrNotFound {
				_ = s.repo.DeleteLine(sessionOwner, l.ID)
				continue
			}
			return err
		}
		merged := clamp(existing[l.ProductID]+l.Quantity, p.Stock)
		if merged == 0 {
			// out of stock since the line was added; drop it
			if err := s.repo.DeleteLine(sessionOwner, l.ID); err != nil {
				return err
			}
			continue
		}
		if err := s.repo.MergeLine(sessionOwner, l.ID, userOwner, merged); err != nil {
			return err
		}
	}
	return nil
}

func clamp(qty, stock int) int {
	if qty > stock {
		return stock
	}
	return qty
}
