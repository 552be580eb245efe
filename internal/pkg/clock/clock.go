package clock

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock pins "now" for deterministic validation tests; the redemption
// path derives every timestamp from the injected clock so tests can step
// time across a coupon's validity window.
type FixedClock struct {
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time {
	return c.current
}

func (c *FixedClock) Set(t time.Time) {
	c.current = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
