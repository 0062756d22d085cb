package review

import "time"

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates a product's reviews. StarPercent is indexed by
// rating 1..5 and holds the share of reviews at that rating.
type Summary struct {
	Average     float64         `json:"average"`
	Count       int             `json:"count"`
	StarPercent map[int]float64 `json:"star_percent"`
}
