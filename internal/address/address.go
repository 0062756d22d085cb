package address

import "time"

// Address is a saved shipping address used to prefill checkout.
type Address struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Label      string    `json:"label"`
	Recipient  string    `json:"recipient"`
	Line       string    `json:"line"`
	City       string    `json:"city"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
