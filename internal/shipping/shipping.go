package shipping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zone groups delivery cities under one shipping cost. A matched zone
// overrides the store's flat shipping fee at checkout.
type Zone struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Cities       []string        `json:"cities"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// Matches reports whether the zone serves the given city. Matching is
// case- and whitespace-insensitive; city names arrive free-text from
// checkout forms.
func (z Zone) Matches(city string) bool {
	needle := normalizeCity(city)
	if needle == "" {
		return false
	}
	for _, c := range z.Cities {
		if normalizeCity(c) == needle {
			return true
		}
	}
	return false
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
