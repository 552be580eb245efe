package coupon

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"coupon-engine/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCode           = errors.New("invalid coupon code format")
	ErrInvalidPercentValue   = errors.New("percentage value must be in (0, 100]")
	ErrInvalidFixedValue     = errors.New("fixed discount value must be positive")
	ErrInvalidMaxDiscount    = errors.New("max discount amount must be positive")
	ErrMaxDiscountOnFixed    = errors.New("max discount amount only applies to percentage coupons")
	ErrInvalidScope          = errors.New("unknown applicability scope")
	ErrEmptySpecificItems    = errors.New("specific scope requires at least one item")
	ErrMissingEndDate        = errors.New("coupon end date is required")
	ErrInvalidValidityWindow = errors.New("start date must be before end date")
	ErrInvalidUserLimit      = errors.New("user limit must be positive")
	ErrInvalidUsageLimit     = errors.New("usage limit must be positive")
	ErrUsageCountOverflow    = errors.New("usage count cannot exceed usage limit")
	ErrNegativeUsageCount    = errors.New("usage count cannot be negative")
	ErrNegativeMinPurchase   = errors.New("minimum purchase amount cannot be negative")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{3,24}$`)

// Code is the canonical coupon identity: uppercase, trimmed, unique.
type Code string

func NewCode(raw string) (Code, error) {
	canonical := Canonicalize(raw)
	if !codePattern.MatchString(canonical) {
		return Code(""), ErrInvalidCode
	}
	return Code(canonical), nil
}

// Canonicalize is applied at every boundary (request parsing, storage keys)
// so SAVE20, " save20 " and Save20 resolve to the same coupon.
func Canonicalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	TypePercentage DiscountType = "percentage"
	TypeFixed      DiscountType = "fixed"
)

// Discount is a closed union: a percentage rate with an optional cap, or a
// fixed amount in the cart currency. Invalid combinations (a capped fixed
// discount, a 120% rate) are unrepresentable.
type Discount struct {
	dtype     DiscountType
	value     decimal.Decimal
	maxAmount *decimal.Decimal
}

func NewPercentageDiscount(value decimal.Decimal, maxAmount *decimal.Decimal) (Discount, error) {
	if !value.IsPositive() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Discount{}, ErrInvalidPercentValue
	}
	if maxAmount != nil && !maxAmount.IsPositive() {
		return Discount{}, ErrInvalidMaxDiscount
	}
	return Discount{dtype: TypePercentage, value: value, maxAmount: maxAmount}, nil
}

func NewFixedDiscount(value decimal.Decimal) (Discount, error) {
	if !value.IsPositive() {
		return Discount{}, ErrInvalidFixedValue
	}
	return Discount{dtype: TypeFixed, value: value}, nil
}

func NewDiscount(dtype string, value decimal.Decimal, maxAmount *decimal.Decimal) (Discount, error) {
	switch DiscountType(dtype) {
	case TypePercentage:
		return NewPercentageDiscount(value, maxAmount)
	case TypeFixed:
		if maxAmount != nil {
			return Discount{}, ErrMaxDiscountOnFixed
		}
		return NewFixedDiscount(value)
	default:
		return Discount{}, errors.New("unknown discount type: " + dtype)
	}
}

func (d Discount) Type() DiscountType     { return d.dtype }
func (d Discount) Value() decimal.Decimal { return d.value }
func (d Discount) IsPercentage() bool     { return d.dtype == TypePercentage }

func (d Discount) MaxAmount() *decimal.Decimal {
	if d.maxAmount == nil {
		return nil
	}
	m := *d.maxAmount
	return &m
}

type ScopeKind string

const (
	ScopeAll         ScopeKind = "all"
	ScopeCourses     ScopeKind = "courses"
	ScopeEbooks      ScopeKind = "ebooks"
	ScopeDemoClasses ScopeKind = "demo-classes"
	ScopeSpecific    ScopeKind = "specific"
)

// ItemRef identifies a single catalog item inside a specific scope.
type ItemRef struct {
	Kind   cart.ItemKind
	ItemID uuid.UUID
}

// Scope is the applicability union: either a kind-wide scope, or an explicit
// item set. Item sets exist only on the specific variant.
type Scope struct {
	kind  ScopeKind
	items map[ItemRef]struct{}
}

func NewScope(kind string) (Scope, error) {
	k := ScopeKind(kind)
	switch k {
	case ScopeAll, ScopeCourses, ScopeEbooks, ScopeDemoClasses:
		return Scope{kind: k}, nil
	case ScopeSpecific:
		return Scope{}, ErrEmptySpecificItems
	}
	return Scope{}, ErrInvalidScope
}

func NewSpecificScope(items []ItemRef) (Scope, error) {
	if len(items) == 0 {
		return Scope{}, ErrEmptySpecificItems
	}
	set := make(map[ItemRef]struct{}, len(items))
	for _, ref := range items {
		if _, err := cart.NewItemKind(string(ref.Kind)); err != nil {
			return Scope{}, err
		}
		set[ref] = struct{}{}
	}
	return Scope{kind: ScopeSpecific, items: set}, nil
}

func (s Scope) Kind() ScopeKind { return s.kind }

func (s Scope) Items() []ItemRef {
	if s.kind != ScopeSpecific {
		return nil
	}
	refs := make([]ItemRef, 0, len(s.items))
	for ref := range s.items {
		refs = append(refs, ref)
	}
	return refs
}

func (s Scope) Matches(li cart.LineItem) bool {
	switch s.kind {
	case ScopeAll:
		return true
	case ScopeCourses:
		return li.Kind() == cart.KindCourse
	case ScopeEbooks:
		return li.Kind() == cart.KindEbook
	case ScopeDemoClasses:
		return li.Kind() == cart.KindDemoClass
	case ScopeSpecific:
		_, ok := s.items[ItemRef{Kind: li.Kind(), ItemID: li.ItemID()}]
		return ok
	}
	return false
}

// Window is the validity window: an optional opening and a mandatory close.
type Window struct {
	start *time.Time
	end   time.Time
}

func NewWindow(start *time.Time, end time.Time) (Window, error) {
	if end.IsZero() {
		return Window{}, ErrMissingEndDate
	}
	if start != nil && !start.Before(end) {
		return Window{}, ErrInvalidValidityWindow
	}
	return Window{start: start, end: end}, nil
}

func (w Window) Start() *time.Time {
	if w.start == nil {
		return nil
	}
	t := *w.start
	return &t
}

func (w Window) End() time.Time { return w.end }

func (w Window) OpensAfter(now time.Time) bool {
	return w.start != nil && now.Before(*w.start)
}

func (w Window) ClosedAt(now time.Time) bool {
	return !now.Before(w.end)
}

// Limits meters how often the coupon may be redeemed: a nil usage limit
// means unlimited, userLimit caps redemptions per distinct shopper.
type Limits struct {
	usageLimit *int
	usageCount int
	userLimit  int
}

func NewLimits(usageLimit *int, usageCount, userLimit int) (Limits, error) {
	if usageLimit != nil && *usageLimit <= 0 {
		return Limits{}, ErrInvalidUsageLimit
	}
	if usageCount < 0 {
		return Limits{}, ErrNegativeUsageCount
	}
	if usageLimit != nil && usageCount > *usageLimit {
		return Limits{}, ErrUsageCountOverflow
	}
	if userLimit <= 0 {
		return Limits{}, ErrInvalidUserLimit
	}
	return Limits{usageLimit: usageLimit, usageCount: usageCount, userLimit: userLimit}, nil
}

func (l Limits) UsageLimit() *int {
	if l.usageLimit == nil {
		return nil
	}
	v := *l.usageLimit
	return &v
}

func (l Limits) UsageCount() int { return l.usageCount }
func (l Limits) UserLimit() int  { return l.userLimit }

func (l Limits) Exhausted() bool {
	return l.usageLimit != nil && l.usageCount >= *l.usageLimit
}

func (l Limits) UserExhausted(userRedemptions int) bool {
	return userRedemptions >= l.userLimit
}
