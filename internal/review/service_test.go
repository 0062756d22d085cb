package review

import (
	"errors"
	"testing"
)

func TestAdd_RatingBounds(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Add(7, 42, rating, nil); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: got %v, want ErrInvalidRating", rating, err)
		}
	}
	if _, err := svc.Add(7, 42, 5, nil); err != nil {
		t.Errorf("rating 5 rejected: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	for _, rating := range []int{5, 5, 4, 2} {
		if _, err := svc.Add(7, 42, rating, nil); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	// another product's review must not leak into the summary
	if _, err := svc.Add(8, 42, 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	summary, err := svc.Summarize(7)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 4 {
		t.Errorf("count = %d, want 4", summary.Count)
	}
	if summary.Average != 4.0 {
		t.Errorf("average = %v, want 4.0", summary.Average)
	}
	if summary.StarPercent[5] != 50 {
		t.Errorf("5-star percent = %v, want 50", summary.StarPercent[5])
	}
	if summary.StarPercent[4] != 25 || summary.StarPercent[2] != 25 {
		t.Errorf("distribution = %v", summary.StarPercent)
	}
	if summary.StarPercent[1] != 0 || summary.StarPercent[3] != 0 {
		t.Errorf("unused stars must be 0, got %v", summary.StarPercent)
	}
}

func TestSummarize_Empty(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	summary, err := svc.Summarize(7)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 0 || summary.Average != 0 {
		t.Errorf("empty summary = %+v", summary)
	}
}
