package coupon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is the aggregate root of the discount engine. All structural
// invariants are enforced at construction, so a *Coupon in memory is always
// valid; the derived lifecycle state is recomputed per call, never stored.
type Coupon struct {
	id          uuid.UUID
	code        Code
	description string
	discount    Discount
	scope       Scope
	minPurchase decimal.Decimal
	window      Window
	limits      Limits
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(
	id uuid.UUID,
	code string,
	description string,
	discount Discount,
	scope Scope,
	minPurchase decimal.Decimal,
	window Window,
	limits Limits,
	isActive bool,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if minPurchase.IsNegative() {
		return nil, ErrNegativeMinPurchase
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Coupon{
		id:          id,
		code:        couponCode,
		description: description,
		discount:    discount,
		scope:       scope,
		minPurchase: minPurchase,
		window:      window,
		limits:      limits,
		isActive:    isActive,
	}, nil
}

func (c *Coupon) ID() uuid.UUID                { return c.id }
func (c *Coupon) Code() Code                   { return c.code }
func (c *Coupon) Description() string          { return c.description }
func (c *Coupon) Discount() Discount           { return c.discount }
func (c *Coupon) Scope() Scope                 { return c.scope }
func (c *Coupon) MinPurchase() decimal.Decimal { return c.minPurchase }
func (c *Coupon) Window() Window               { return c.window }
func (c *Coupon) Limits() Limits               { return c.limits }
func (c *Coupon) IsActive() bool               { return c.isActive }
func (c *Coupon) CreatedAt() time.Time         { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time         { return c.updatedAt }
