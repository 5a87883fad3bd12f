// Package projector derives the badge count and monetary totals from a cart
// snapshot. Everything here is a pure function of its input: no storage
// access, no caching, so a projection is always consistent with the
// snapshot it was computed from.
package projector

import (
	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/shopspring/decimal"
)

// minorUnits maps ISO currency codes to their minor-unit exponent.
// Unlisted currencies fall back to two decimal places.
var minorUnits = map[string]int32{
	"CLP": 0,
	"JPY": 0,
	"USD": 2,
	"EUR": 2,
}

type Projector struct {
	currency string
	exponent int32
}

func New(currency string) *Projector {
	exp, ok := minorUnits[currency]
	if !ok {
		exp = 2
	}
	return &Projector{currency: currency, exponent: exp}
}

func (p *Projector) Currency() string {
	return p.currency
}

// ItemCount is what the cart badge displays: the sum of quantities across
// all lines, not the number of distinct products.
func (p *Projector) ItemCount(lines []domain.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// LineSubtotal is quantity x unit price, rounded half-up to the currency's
// minor unit.
func (p *Projector) LineSubtotal(quantity int, unitPrice float64) float64 {
	sub := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(p.exponent)
	f, _ := sub.Float64()
	return f
}

// CartTotal sums the rounded line subtotals. Rounding happens per line,
// with the same half-up rule as LineSubtotal, so the total always equals
// what the displayed subtotals add up to.
func (p *Projector) CartTotal(lines []domain.CartLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		sub := decimal.NewFromFloat(line.UnitPrice).
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			Round(p.exponent)
		total = total.Add(sub)
	}
	f, _ := total.Float64()
	return f
}

// Summarize produces the badge projection for a snapshot.
func (p *Projector) Summarize(lines []domain.CartLine) domain.CartSummary {
	return domain.CartSummary{
		ItemCount: p.ItemCount(lines),
		Total:     p.CartTotal(lines),
		Currency:  p.currency,
	}
}
