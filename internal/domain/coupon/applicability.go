package coupon

import (
	"coupon-engine/internal/domain/cart"

	"github.com/shopspring/decimal"
)

// Applicability is the slice of the cart a coupon is allowed to touch.
// Ineligible items still count toward the grand total but are invisible to
// the discount math.
type Applicability struct {
	Items    []cart.LineItem
	Subtotal decimal.Decimal
}

func (a Applicability) Empty() bool {
	return len(a.Items) == 0
}

// ResolveApplicability filters the cart through the coupon scope, preserving
// line order, and sums the eligible subtotal.
func (c *Coupon) ResolveApplicability(ct cart.Cart) Applicability {
	result := Applicability{Subtotal: decimal.Zero}
	for _, li := range ct.Items() {
		if !c.scope.Matches(li) {
			continue
		}
		result.Items = append(result.Items, li)
		result.Subtotal = result.Subtotal.Add(li.Subtotal())
	}
	return result
}
