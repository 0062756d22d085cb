package pricing

import "github.com/shopspring/decimal"

// Line is the minimal shape the calculator needs: anything with a unit
// price and a quantity (cart lines and order lines both satisfy it).
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the price breakdown shown on the cart and frozen onto
// orders. All amounts are rounded to 2 decimal places.
type Totals struct {
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Tax                      decimal.Decimal `json:"tax"`
	Shipping                 decimal.Decimal `json:"shipping"`
	Discount                 decimal.Decimal `json:"discount"`
	Total                    decimal.Decimal `json:"total"`
	ItemsCount               int             `json:"items_count"`
	RemainingForFreeShipping decimal.Decimal `json:"remaining_for_free_shipping"`
}

// Calculator holds the store-wide pricing constants. Construct it from
// config once; nothing else should hard-code these values.
type Calculator struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// Totals computes the breakdown for a set of lines using the flat
// shipping fee. subtotal ≥ threshold ships free.
func (c Calculator) Totals(lines []Line) Totals {
	return c.TotalsWithShipping(lines, c.FlatShippingFee)
}

// TotalsWithShipping computes the breakdown with an explicit shipping
// fee (a matched delivery zone overrides the flat fee). The
// free-shipping threshold applies either way.
func (c Calculator) TotalsWithShipping(lines []Line, fee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(c.TaxRate).Round(2)

	shipping := fee.Round(2)
	remaining := decimal.Zero
	if subtotal.GreaterThanOrEqual(c.FreeShippingThreshold) {
		shipping = decimal.Zero
	} else {
		remaining = c.FreeShippingThreshold.Sub(subtotal)
	}

	discount := decimal.Zero
	total := subtotal.Add(tax).Add(shipping).Sub(discount)

	return Totals{
		Subtotal:                 subtotal,
		Tax:                      tax,
		Shipping:                 shipping,
		Discount:                 discount,
		Total:                    total,
		ItemsCount:               count,
		RemainingForFreeShipping: remaining,
	}
}
