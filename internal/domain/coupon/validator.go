package coupon

import (
	"fmt"
	"time"

	"coupon-engine/internal/domain/cart"

	"github.com/shopspring/decimal"
)

// RejectionReason enumerates every expected business outcome of validation.
// These are values, not errors: "coupon doesn't apply" is a normal answer.
type RejectionReason string

const (
	ReasonNotFound          RejectionReason = "COUPON_NOT_FOUND"
	ReasonInactive          RejectionReason = "COUPON_INACTIVE"
	ReasonNotYetActive      RejectionReason = "NOT_YET_ACTIVE"
	ReasonExpired           RejectionReason = "EXPIRED"
	ReasonUsageLimitReached RejectionReason = "USAGE_LIMIT_REACHED"
	ReasonUserLimitReached  RejectionReason = "USER_LIMIT_REACHED"
	ReasonNotApplicable     RejectionReason = "NOT_APPLICABLE"
	ReasonMinPurchaseNotMet RejectionReason = "MIN_PURCHASE_NOT_MET"
)

func (r RejectionReason) Message() string {
	switch r {
	case ReasonNotFound:
		return "coupon not found"
	case ReasonInactive:
		return "this coupon is no longer active"
	case ReasonNotYetActive:
		return "this coupon is not active yet"
	case ReasonExpired:
		return "this coupon has expired"
	case ReasonUsageLimitReached:
		return "this coupon just reached its usage limit"
	case ReasonUserLimitReached:
		return "you have already used this coupon the maximum number of times"
	case ReasonNotApplicable:
		return "this coupon does not apply to any item in your cart"
	case ReasonMinPurchaseNotMet:
		return "minimum purchase amount not met"
	}
	return "coupon cannot be applied"
}

// Result is the outcome of a validation pass. Approved results carry the
// eligible slice of the cart; rejected ones carry the tagged reason and a
// shopper-facing message.
type Result struct {
	Approved         bool
	EligibleItems    []cart.LineItem
	EligibleSubtotal decimal.Decimal
	Reason           RejectionReason
	Message          string
}

func Reject(reason RejectionReason) Result {
	return Result{Reason: reason, Message: reason.Message()}
}

func rejectWithMessage(reason RejectionReason, message string) Result {
	return Result{Reason: reason, Message: message}
}

// Validate is the pure decision function. It mutates nothing and may be
// called arbitrarily often for quote refreshes; userRedemptions is the
// caller-supplied count of committed ledger entries for this shopper.
// Checks run in a fixed order and short-circuit on the first failure so
// rejection messages stay deterministic.
func (c *Coupon) Validate(ct cart.Cart, userRedemptions int, now time.Time) Result {
	if !c.isActive {
		return Reject(ReasonInactive)
	}
	if c.window.OpensAfter(now) {
		return Reject(ReasonNotYetActive)
	}
	if c.window.ClosedAt(now) {
		return Reject(ReasonExpired)
	}
	if c.limits.Exhausted() {
		return Reject(ReasonUsageLimitReached)
	}
	if c.limits.UserExhausted(userRedemptions) {
		return Reject(ReasonUserLimitReached)
	}

	applicability := c.ResolveApplicability(ct)
	if applicability.Empty() {
		return Reject(ReasonNotApplicable)
	}

	if applicability.Subtotal.LessThan(c.minPurchase) {
		shortfall := c.minPurchase.Sub(applicability.Subtotal)
		msg := fmt.Sprintf(
			"minimum purchase of %s not met, add %s more to use this coupon",
			c.minPurchase.StringFixed(2), shortfall.StringFixed(2),
		)
		return rejectWithMessage(ReasonMinPurchaseNotMet, msg)
	}

	return Result{
		Approved:         true,
		EligibleItems:    applicability.Items,
		EligibleSubtotal: applicability.Subtotal,
	}
}
