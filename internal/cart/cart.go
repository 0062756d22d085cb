package cart

import (
	"time"

	"github.com/yassirmk/cleanshop-backend/internal/product"
)

// Owner identifies whose cart a line belongs to: an authenticated user
// id or an opaque anonymous session id, exactly one of the two.
type Owner struct {
	UserID    int
	SessionID string
}

func ForUser(userID int) Owner          { return Owner{UserID: userID} }
func ForSession(sessionID string) Owner { return Owner{SessionID: sessionID} }

func (o Owner) Valid() bool {
	return (o.UserID > 0) != (o.SessionID != "")
}

// Line is one (owner, product) pairing with a quantity, prior to order
// placement. At most one line exists per pair; adds merge into it.
type Line struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	SessionID *string   `json:"session_id,omitempty"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a line enriched with its product for API responses.
type Item struct {
	Line
	Product product.Product `json:"product"`
}
