package payment

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks money movement against the gateway. It is deliberately
// a separate machine from the order's payment_status field; the two are
// synchronized only through explicit calls in the service.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// transitions also allows pending to jump straight to completed or
// failed: cash on delivery and synchronously-capturing gateways settle
// in one callback without a processing step in between.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Payment is the gateway-facing companion record of an order. Amount is
// fixed at creation to the order total and never changes; refunds
// accumulate separately in RefundAmount.
type Payment struct {
	ID              int             `json:"id"`
	OrderID         int             `json:"order_id"`
	Method          string          `json:"method"`
	Status          Status          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionID   *string         `json:"transaction_id,omitempty"`
	GatewayResponse json.RawMessage `json:"gateway_response,omitempty"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	FailedAt        *time.Time      `json:"failed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
