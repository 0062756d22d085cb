package review

import (
	"errors"
	"math"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Add(productID int, userID int, rating int, comment *string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	return s.repo.Add(Review{ProductID: productID, UserID: userID, Rating: rating, Comment: comment})
}

func (s *Service) ListByProduct(productID int) ([]Review, error) {
	return s.repo.ListByProduct(productID)
}

// Summarize computes the average to two decimals and the per-star
// distribution as percentages.
func (s *Service) Summarize(productID int) (Summary, error) {
	reviews, err := s.repo.ListByProduct(productID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{StarPercent: map[int]float64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return summary, nil
	}

	total := 0
	counts := map[int]int{}
	for _, rev := range reviews {
		total += rev.Rating
		counts[rev.Rating]++
	}
	summary.Count = len(reviews)
	summary.Average = math.Round(float64(total)/float64(len(reviews))*100) / 100
	for star := 1; star <= 5; star++ {
		summary.StarPercent[star] = math.Round(float64(counts[star])/float64(len(reviews))*10000) / 100
	}
	return summary, nil
}
