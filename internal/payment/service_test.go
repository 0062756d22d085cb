package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type orderSyncSpy struct {
	calls map[int]string
}

func (s *orderSyncSpy) SetPaymentStatus(orderID int, status string) error {
	if s.calls == nil {
		s.calls = map[int]string{}
	}
	s.calls[orderID] = status
	return nil
}

func seeded(status Status) (*Service, *orderSyncSpy) {
	spy := &orderSyncSpy{}
	repo := NewInMemoryRepository([]Payment{{
		ID: 1, OrderID: 10, Method: "card", Status: status,
		Amount: decimal.NewFromInt(100), Currency: "MAD",
		RefundAmount: decimal.Zero,
	}})
	return NewService(repo, spy), spy
}

func TestCompleted_SyncsOrderPaid(t *testing.T) {
	svc, spy := seeded(StatusProcessing)
	p, err := svc.MarkCompleted(1, "txn-9", []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", p.Status)
	}
	if p.ProcessedAt == nil {
		t.Errorf("processed_at not stamped")
	}
	if spy.calls[10] != "paid" {
		t.Errorf("order sync = %q, want paid", spy.calls[10])
	}
}

func TestFailed_SyncsOrderFailed(t *testing.T) {
	svc, spy := seeded(StatusPending)
	if _, err := svc.MarkFailed(1, nil); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if spy.calls[10] != "failed" {
		t.Errorf("order sync = %q, want failed", spy.calls[10])
	}
}

func TestInvalidTransitions(t *testing.T) {
	cases := []struct {
		from Status
		call func(*Service) error
	}{
		{StatusCompleted, func(s *Service) error { _, err := s.MarkProcessing(1, ""); return err }},
		{StatusFailed, func(s *Service) error { _, err := s.MarkCompleted(1, "", nil); return err }},
		{StatusPending, func(s *Service) error { _, err := s.Refund(1, decimal.NewFromInt(10)); return err }},
		{StatusRefunded, func(s *Service) error { _, err := s.Refund(1, decimal.NewFromInt(10)); return err }},
	}
	for _, tc := range cases {
		svc, spy := seeded(tc.from)
		if err := tc.call(svc); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("from %s: got %v, want ErrInvalidTransition", tc.from, err)
		}
		if len(spy.calls) != 0 {
			t.Errorf("from %s: order sync called on refused transition", tc.from)
		}
	}
}

func TestRefund_BoundedByAmount(t *testing.T) {
	svc, spy := seeded(StatusCompleted)
	if _, err := svc.Refund(1, decimal.NewFromInt(150)); !errors.Is(err, ErrRefundTooLarge) {
		t.Fatalf("got %v, want ErrRefundTooLarge", err)
	}
	p, err := svc.Refund(1, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !p.RefundAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("refund_amount = %s, want 100", p.RefundAmount)
	}
	if spy.calls[10] != "refunded" {
		t.Errorf("order sync = %q, want refunded", spy.calls[10])
	}
}
