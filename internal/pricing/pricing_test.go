package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func testCalculator() Calculator {
	return Calculator{
		TaxRate:               decimal.RequireFromString("0.20"),
		FreeShippingThreshold: decimal.NewFromInt(200),
		FlatShippingFee:       decimal.NewFromInt(30),
	}
}

func TestTotals_KnownScenario(t *testing.T) {
	// one product at 25.50, quantity 2, below the free-shipping threshold
	c := testCalculator()
	got := c.Totals([]Line{{UnitPrice: decimal.RequireFromString("25.50"), Quantity: 2}})

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", got.Subtotal, "51"},
		{"tax", got.Tax, "10.2"},
		{"shipping", got.Shipping, "30"},
		{"total", got.Total, "91.2"},
		{"remaining", got.RemainingForFreeShipping, "149"},
	}
	for _, ch := range checks {
		if !ch.got.Equal(decimal.RequireFromString(ch.want)) {
			t.Errorf("%s = %s, want %s", ch.name, ch.got, ch.want)
		}
	}
	if got.ItemsCount != 2 {
		t.Errorf("items_count = %d, want 2", got.ItemsCount)
	}
}

func TestTotals_FreeShippingAtThreshold(t *testing.T) {
	c := testCalculator()
	got := c.Totals([]Line{{UnitPrice: decimal.NewFromInt(100), Quantity: 2}})
	if !got.Shipping.IsZero() {
		t.Errorf("shipping = %s, want 0 at threshold", got.Shipping)
	}
	if !got.RemainingForFreeShipping.IsZero() {
		t.Errorf("remaining = %s, want 0", got.RemainingForFreeShipping)
	}
	if !got.Total.Equal(decimal.RequireFromString("240")) {
		t.Errorf("total = %s, want 240", got.Total)
	}
}

func TestTotals_EmptyAndZeroQuantity(t *testing.T) {
	c := testCalculator()
	for _, lines := range [][]Line{nil, {}, {{UnitPrice: decimal.NewFromInt(10), Quantity: 0}}} {
		got := c.Totals(lines)
		if !got.Subtotal.IsZero() || got.ItemsCount != 0 {
			t.Errorf("empty cart: subtotal=%s items=%d, want 0/0", got.Subtotal, got.ItemsCount)
		}
		if got.Total.IsNegative() {
			t.Errorf("total went negative: %s", got.Total)
		}
	}
}

func TestTotals_ZoneOverride(t *testing.T) {
	c := testCalculator()
	got := c.TotalsWithShipping([]Line{{UnitPrice: decimal.NewFromInt(50), Quantity: 1}}, decimal.NewFromInt(15))
	if !got.Shipping.Equal(decimal.NewFromInt(15)) {
		t.Errorf("shipping = %s, want zone fee 15", got.Shipping)
	}
	// the threshold still wins over a zone fee
	got = c.TotalsWithShipping([]Line{{UnitPrice: decimal.NewFromInt(250), Quantity: 1}}, decimal.NewFromInt(15))
	if !got.Shipping.IsZero() {
		t.Errorf("shipping = %s, want 0 above threshold", got.Shipping)
	}
}

func TestTotals_Invariant(t *testing.T) {
	// total must always equal subtotal + tax + shipping - discount,
	// for arbitrary price/quantity mixes
	c := testCalculator()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		n := rng.Intn(6)
		lines := make([]Line, 0, n)
		for j := 0; j < n; j++ {
			price := decimal.NewFromInt(int64(rng.Intn(30000))).Div(decimal.NewFromInt(100))
			lines = append(lines, Line{UnitPrice: price, Quantity: rng.Intn(5)})
		}
		got := c.Totals(lines)
		want := got.Subtotal.Add(got.Tax).Add(got.Shipping).Sub(got.Discount)
		if !got.Total.Equal(want) {
			t.Fatalf("iteration %d: total %s != breakdown sum %s", i, got.Total, want)
		}
		if got.Subtotal.IsNegative() || got.Total.IsNegative() {
			t.Fatalf("iteration %d: negative amounts: %+v", i, got)
		}
	}
}
