package order

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yassirmk/cleanshop-backend/internal/cart"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotFound  = errors.New("order not found")
)

// PlaceInput is everything the checkout transaction needs. ShippingFee
// is already zone-resolved (or the flat fee) by the service.
type PlaceInput struct {
	Owner           cart.Owner
	CustomerEmail   *string
	ShippingAddress Address
	BillingAddress  *Address
	PaymentMethod   string
	Currency        string
	Notes           *string
	ShippingFee     decimal.Decimal
}

// Repository is the transactional boundary for orders. PlaceOrder and
// Cancel are each one atomic unit of work: any failure inside rolls
// back every write, stock decrements included.
type Repository interface {
	PlaceOrder(in PlaceInput) (Order, error)
	GetByID(id int) (Order, error)
	GetByNumber(number string) (Order, error)
	ListByUser(userID int) ([]Order, error)
	// Cancel restocks every line and marks the order cancelled. The
	// boolean is false when the order exists but is past cancellation;
	// that is a refusal, not an error.
	Cancel(orderID int, userID int, reason string) (Order, bool, error)
	SetPaymentStatus(orderID int, status PaymentStatus) error
}
