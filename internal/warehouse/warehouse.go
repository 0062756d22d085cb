package warehouse

import "time"

// Stock is one product's count in one warehouse. Reserved units are
// still counted in Quantity until the reservation is confirmed.
type Stock struct {
	ID        int       `json:"id"`
	Warehouse string    `json:"warehouse"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reserved  int       `json:"reserved"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available is what can still be promised to new orders.
func (s Stock) Available() int {
	return s.Quantity - s.Reserved
}
