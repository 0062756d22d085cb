package order

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusProcessing},
		{StatusConfirmed, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusProcessing, StatusRefunded},
		{StatusDelivered, StatusRefunded},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to Status }{
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusShipped, StatusPending},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusConfirmed},
		{StatusPending, StatusShipped},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be refused", tc.from, tc.to)
		}
	}
}

func TestCanBeCancelled(t *testing.T) {
	cancellable := map[Status]bool{
		StatusPending:    true,
		StatusConfirmed:  true,
		StatusProcessing: false,
		StatusShipped:    false,
		StatusDelivered:  false,
		StatusCancelled:  false,
		StatusRefunded:   false,
	}
	for s, want := range cancellable {
		if got := s.CanBeCancelled(); got != want {
			t.Errorf("%s: CanBeCancelled = %v, want %v", s, got, want)
		}
	}
}

func TestNumber(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	if got := Number(createdAt, 42); got != "ORD-20250314-000042" {
		t.Errorf("Number = %q, want ORD-20250314-000042", got)
	}
	if got := Number(createdAt, 1234567); got != "ORD-20250314-1234567" {
		t.Errorf("Number = %q, want ORD-20250314-1234567", got)
	}
}
