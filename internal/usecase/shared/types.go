package shared

import (
	"time"

	"coupon-engine/internal/domain/cart"
	"coupon-engine/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponSnapshot is the flat read model repositories hand to the usecase
// layer; ToDomain rebuilds the validated aggregate from it.
type CouponSnapshot struct {
	ID                uuid.UUID
	Code              string
	Description       *string
	DiscountType      string
	Value             decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ApplicableTo      string
	Items             []ItemRefSnapshot
	StartDate         *time.Time
	EndDate           time.Time
	UsageLimit        *int
	UsageCount        int
	UserLimit         int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ItemRefSnapshot struct {
	Kind   string
	ItemID uuid.UUID
}

func (s *CouponSnapshot) ToDomain() (*coupon.Coupon, error) {
	discount, err := coupon.NewDiscount(s.DiscountType, s.Value, s.MaxDiscountAmount)
	if err != nil {
		return nil, err
	}

	var scope coupon.Scope
	if coupon.ScopeKind(s.ApplicableTo) == coupon.ScopeSpecific {
		refs := make([]coupon.ItemRef, 0, len(s.Items))
		for _, item := range s.Items {
			refs = append(refs, coupon.ItemRef{Kind: cart.ItemKind(item.Kind), ItemID: item.ItemID})
		}
		scope, err = coupon.NewSpecificScope(refs)
	} else {
		scope, err = coupon.NewScope(s.ApplicableTo)
	}
	if err != nil {
		return nil, err
	}

	window, err := coupon.NewWindow(s.StartDate, s.EndDate)
	if err != nil {
		return nil, err
	}

	limits, err := coupon.NewLimits(s.UsageLimit, s.UsageCount, s.UserLimit)
	if err != nil {
		return nil, err
	}

	description := ""
	if s.Description != nil {
		description = *s.Description
	}

	return coupon.New(s.ID, s.Code, description, discount, scope, s.MinPurchaseAmount, window, limits, s.IsActive)
}

// CatalogItemSnapshot is a priced catalog row resolved for a cart item ref.
type CatalogItemSnapshot struct {
	ID        uuid.UUID
	Kind      string
	Title     string
	UnitPrice decimal.Decimal
}

// RedemptionSnapshot is one committed usedBy ledger entry.
type RedemptionSnapshot struct {
	ID             uuid.UUID
	CouponID       uuid.UUID
	UserID         uuid.UUID
	OrderID        uuid.UUID
	UserUsageCount int
	DiscountAmount decimal.Decimal
	UsedAt         time.Time
}
