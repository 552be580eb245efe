package coupon

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Breakdown is the concrete money outcome of an approved validation.
type Breakdown struct {
	EligibleSubtotal    decimal.Decimal
	Discount            decimal.Decimal
	FinalEligibleAmount decimal.Decimal
}

// Amount computes the raw discount for an eligible subtotal. Rounding to the
// currency's two decimal places happens exactly once, at the end; rounding
// intermediates would compound the error.
func (d Discount) Amount(eligibleSubtotal decimal.Decimal) decimal.Decimal {
	if !eligibleSubtotal.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch d.dtype {
	case TypePercentage:
		amount = eligibleSubtotal.Mul(d.value).Div(oneHundred)
		if d.maxAmount != nil && amount.GreaterThan(*d.maxAmount) {
			amount = *d.maxAmount
		}
	case TypeFixed:
		// A fixed discount never exceeds the slice of the cart it applies
		// to; otherwise the remainder would go negative.
		amount = decimal.Min(d.value, eligibleSubtotal)
	}

	return amount.Round(2)
}

// ComputeDiscount turns an approved validation into concrete amounts.
// The cart grand total is then (cartTotal - eligibleSubtotal) + FinalEligibleAmount.
func (c *Coupon) ComputeDiscount(eligibleSubtotal decimal.Decimal) Breakdown {
	discount := c.discount.Amount(eligibleSubtotal)
	return Breakdown{
		EligibleSubtotal:    eligibleSubtotal,
		Discount:            discount,
		FinalEligibleAmount: eligibleSubtotal.Sub(discount),
	}
}
