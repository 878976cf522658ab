package models

import "github.com/shopspring/decimal"

// LineItem is one distinct menu item entry in a cart, with its quantity
// and selected customizations. A line item never exists with quantity 0;
// the cart store evicts it instead.
type LineItem struct {
	ItemID         int             `json:"item_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Customizations []string        `json:"customizations,omitempty"`
}

// LineTotal returns unit price times quantity for this line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
