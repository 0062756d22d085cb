package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransition = errors.New("invalid payment transition")
	ErrRefundTooLarge    = errors.New("refund exceeds payment amount")
)

// OrderSync pushes the payment outcome onto the parent order's
// payment_status. This is the single allowed coupling point between the
// payment machine and the order machine.
type OrderSync interface {
	SetPaymentStatus(orderID int, status string) error
}

type Service struct {
	repo   Repository
	orders OrderSync
}

func NewService(repo Repository, orders OrderSync) *Service {
	return &Service{repo: repo, orders: orders}
}

func (s *Service) GetByOrderID(orderID int) (Payment, error) {
	return s.repo.GetByOrderID(orderID)
}

// MarkProcessing moves a pending payment into the gateway's hands.
func (s *Service) MarkProcessing(id int, transactionID string) (Payment, error) {
	return s.transition(id, StatusProcessing, func(p *Payment) {
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
	}, "")
}

// MarkCompleted records a successful capture and flips the order's
// payment_status to paid.
func (s *Service) MarkCompleted(id int, transactionID string, gatewayResponse json.RawMessage) (Payment, error) {
	now := time.Now()
	return s.transition(id, StatusCompleted, func(p *Payment) {
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
		p.GatewayResponse = gatewayResponse
		p.ProcessedAt = &now
	}, "paid")
}

// MarkFailed records a gateway failure; the order stays where it is,
// only its payment_status moves.
func (s *Service) MarkFailed(id int, gatewayResponse json.RawMessage) (Payment, error) {
	now := time.Now()
	return s.transition(id, StatusFailed, func(p *Payment) {
		p.GatewayResponse = gatewayResponse
		p.FailedAt = &now
	}, "failed")
}

func (s *Service) MarkCancelled(id int) (Payment, error) {
	now := time.Now()
	return s.transition(id, StatusCancelled, func(p *Payment) {
		p.CancelledAt = &now
	}, "")
}

// Refund moves a completed payment to refunded. The cumulative refund
// can never exceed the captured amount.
func (s *Service) Refund(id int, amount decimal.Decimal) (Payment, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return Payment{}, err
	}
	if !p.Status.CanTransition(StatusRefunded) {
		return Payment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, StatusRefunded)
	}
	if amount.IsNegative() || p.RefundAmount.Add(amount).GreaterThan(p.Amount) {
		return Payment{}, ErrRefundTooLarge
	}

	now := time.Now()
	p.Status = StatusRefunded
	p.RefundAmount = p.RefundAmount.Add(amount)
	p.RefundedAt = &now
	if err := s.repo.Save(p); err != nil {
		return Payment{}, err
	}
	if err := s.orders.SetPaymentStatus(p.OrderID, "refunded"); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (s *Service) transition(id int, next Status, mutate func(*Payment), orderPaymentStatus string) (Payment, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return Payment{}, err
	}
	if !p.Status.CanTransition(next) {
		return Payment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	p.Status = next
	mutate(&p)
	if err := s.repo.Save(p); err != nil {
		return Payment{}, err
	}
	if orderPaymentStatus != "" {
		if err := s.orders.SetPaymentStatus(p.OrderID, orderPaymentStatus); err != nil {
			return Payment{}, err
		}
	}
	return p, nil
}
