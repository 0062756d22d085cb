package payment

import "testing"

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusFailed},
		{StatusProcessing, StatusCancelled},
		{StatusCompleted, StatusRefunded},
		// one-step settlement for cash on delivery and synchronous captures
		{StatusPending, StatusCompleted},
		{StatusPending, StatusFailed},
		{StatusPending, StatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to Status }{
		{StatusCompleted, StatusFailed},
		{StatusCompleted, StatusCancelled},
		{StatusFailed, StatusCompleted},
		{StatusFailed, StatusRefunded},
		{StatusCancelled, StatusCompleted},
		{StatusRefunded, StatusCompleted},
		{StatusRefunded, StatusRefunded},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be refused", tc.from, tc.to)
		}
	}
}
