package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yassirmk/cleanshop-backend/internal/payment"
)

// Status is the fulfillment state machine. Transitions only move
// forward; cancellation is a side exit reachable while the order has
// not started shipping, and refunded arrives through the payment path.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusRefunded},
	StatusShipped:    {StatusDelivered, StatusRefunded},
	StatusDelivered:  {StatusRefunded},
}

func (s Status) CanTransition(next Status) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// CanBeCancelled: shipped and delivered orders are cancel-immune.
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// PaymentStatus mirrors money movement on the order itself. It is kept
// in sync from the payment machine through explicit calls, never
// derived automatically.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Address is the structured snapshot frozen onto an order at checkout.
type Address struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	City         string  `json:"city"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      string  `json:"country"`
	Phone        string  `json:"phone"`
}

// Snapshot preserves the product's identity at order time so history
// stays legible after the product changes or disappears.
type Snapshot struct {
	SKU    string  `json:"sku"`
	NameFR string  `json:"name_fr"`
	NameAR string  `json:"name_ar"`
	NameEN string  `json:"name_en"`
	Image  *string `json:"image,omitempty"`
	Brand  *string `json:"brand,omitempty"`
}

// Line is a frozen order line. Price, quantity and snapshot are
// write-once at creation.
type Line struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID *int            `json:"product_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Snapshot  Snapshot        `json:"product_snapshot"`
}

// Order is immutable once placed apart from its status fields and
// lifecycle timestamps. Monetary fields are always recomputed from the
// owned lines, never edited directly.
type Order struct {
	ID              int              `json:"id"`
	UserID          *int             `json:"user_id,omitempty"`
	CustomerEmail   *string          `json:"customer_email,omitempty"`
	OrderNumber     string           `json:"order_number"`
	Status          Status           `json:"status"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	PaymentMethod   string           `json:"payment_method"`
	Currency        string           `json:"currency"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Tax             decimal.Decimal  `json:"tax"`
	Shipping        decimal.Decimal  `json:"shipping"`
	Discount        decimal.Decimal  `json:"discount"`
	Total           decimal.Decimal  `json:"total"`
	ShippingAddress Address          `json:"shipping_address"`
	BillingAddress  *Address         `json:"billing_address,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	ShippedAt       *time.Time       `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time       `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Lines           []Line           `json:"items"`
	Payment         *payment.Payment `json:"payment,omitempty"`
}

// CanBeCancelled is exposed on the API payload so clients can hide the
// cancel action instead of learning from a refused call.
func (o Order) CanBeCancelled() bool {
	return o.Status.CanBeCancelled()
}

// Number derives the human-facing identifier from the creation date and
// the row id. The id only exists after insert, so the number is
// unknowable before the row does.
func Number(createdAt time.Time, id int) string {
	return fmt.Sprintf("ORD-%s-%06d", createdAt.Format("20060102"), id)
}
