package coupon

import "time"

// Status is the derived lifecycle state. It is a projection over the
// kill-switch, the validity window and the usage counters; persisting it
// would let it drift from the fields it is computed from.
type Status string

const (
	StatusDisabled   Status = "disabled"
	StatusPending    Status = "pending"
	StatusExpired    Status = "expired"
	StatusExhausted  Status = "exhausted"
	StatusRedeemable Status = "redeemable"
)

func (c *Coupon) StatusAt(now time.Time) Status {
	switch {
	case !c.isActive:
		return StatusDisabled
	case c.window.OpensAfter(now):
		return StatusPending
	case c.window.ClosedAt(now):
		return StatusExpired
	case c.limits.Exhausted():
		return StatusExhausted
	default:
		return StatusRedeemable
	}
}
