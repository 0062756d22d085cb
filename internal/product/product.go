package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product maps to the `products` table. Names and descriptions are
// stored per locale; French is the primary catalog language.
type Product struct {
	ID            int             `json:"id"`
	SKU           string          `json:"sku"`
	NameFR        string          `json:"name_fr"`
	NameAR        string          `json:"name_ar"`
	NameEN        string          `json:"name_en"`
	DescriptionFR *string         `json:"description_fr,omitempty"`
	DescriptionAR *string         `json:"description_ar,omitempty"`
	DescriptionEN *string         `json:"description_en,omitempty"`
	Brand         *string         `json:"brand,omitempty"`
	Image         *string         `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Active        bool            `json:"is_active"`
	CategoryID    *int            `json:"category_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Name returns the product name for a locale, falling back to French,
// then English, then Arabic.
func (p Product) Name(locale string) string {
	var name string
	switch strings.ToLower(locale) {
	case "ar":
		name = p.NameAR
	case "en":
		name = p.NameEN
	default:
		name = p.NameFR
	}
	for _, fallback := range []string{name, p.NameFR, p.NameEN, p.NameAR} {
		if fallback != "" {
			return fallback
		}
	}
	return ""
}

// InStock reports whether at least qty units can be sold right now.
func (p Product) InStock(qty int) bool {
	return p.Stock >= qty
}
