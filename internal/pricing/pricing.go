// Package pricing computes cart totals. All arithmetic stays in
// decimal.Decimal; rounding to two places happens only when a value is
// formatted for display, never between line items.
package pricing

import (
	"github.com/shopspring/decimal"

	"dinehub/internal/models"
)

// Default rates applied when the configuration does not override them.
var (
	DefaultTaxRate = decimal.NewFromFloat(0.08)
	DefaultTipRate = decimal.NewFromFloat(0.18)
)

// Totals holds the derived amounts for a cart snapshot. Tax and tip are each
// derived from the subtotal independently, not compounded.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives the totals for a snapshot. It is pure and
// order-independent: permuting the snapshot yields identical results, and an
// empty snapshot yields zero for every field.
func ComputeTotals(snapshot []models.LineItem, taxRate, tipRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range snapshot {
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(taxRate)
	tip := subtotal.Mul(tipRate)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    subtotal.Add(tax).Add(tip),
	}
}

// Rounded returns a copy with every amount rounded to two decimal places,
// suitable for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Tax:      t.Tax.Round(2),
		Tip:      t.Tip.Round(2),
		Total:    t.Total.Round(2),
	}
}
