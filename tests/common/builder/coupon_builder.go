//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "coupon-engine/internal/domain/coupon"
	reqdto "coupon-engine/internal/handler/dto/request"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	ID           uuid.UUID
	Code         string
	Description  string
	DiscountType string
	Value        decimal.Decimal
	MinPurchase  decimal.Decimal
	MaxDiscount  *decimal.Decimal
	ApplicableTo string
	Items        []shared.ItemRefSnapshot
	StartDate    *time.Time
	EndDate      time.Time
	UsageLimit   *int
	UsageCount   int
	UserLimit    int
	IsActive     bool
}

// NewCouponBuilder defaults to a currently-redeemable 20% coupon on
// everything, no caps, no minimum.
func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:           uuid.New(),
		Code:         "SAVE20",
		Description:  "20% off everything",
		DiscountType: "percentage",
		Value:        decimal.NewFromInt(20),
		MinPurchase:  decimal.Zero,
		ApplicableTo: "all",
		EndDate:      time.Now().Add(30 * 24 * time.Hour),
		UserLimit:    1,
		IsActive:     true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CouponBuilder) BuildSnapshot() *shared.CouponSnapshot {
	description := b.Description
	return &shared.CouponSnapshot{
		ID:                b.ID,
		Code:              b.Code,
		Description:       &description,
		DiscountType:      b.DiscountType,
		Value:             b.Value,
		MinPurchaseAmount: b.MinPurchase,
		MaxDiscountAmount: b.MaxDiscount,
		ApplicableTo:      b.ApplicableTo,
		Items:             b.Items,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		UsageLimit:        b.UsageLimit,
		UsageCount:        b.UsageCount,
		UserLimit:         b.UserLimit,
		IsActive:          b.IsActive,
	}
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return b.BuildSnapshot().ToDomain()
}

func (b *CouponBuilder) BuildQuoteView() *queries.QuoteView {
	description := b.Description
	return &queries.QuoteView{
		Valid: true,
		Coupon: &queries.CouponSummary{
			Code:        b.Code,
			Type:        b.DiscountType,
			Value:       b.Value,
			Description: &description,
		},
		Discount:          decimal.RequireFromString("20.00"),
		CartTotal:         decimal.RequireFromString("100.00"),
		FinalTotal:        decimal.RequireFromString("80.00"),
		MinPurchaseAmount: b.MinPurchase,
	}
}

func (b *CouponBuilder) BuildActiveView() *queries.ActiveCouponView {
	description := b.Description
	return &queries.ActiveCouponView{
		Code:              b.Code,
		Type:              b.DiscountType,
		Value:             b.Value,
		Description:       &description,
		MinPurchaseAmount: b.MinPurchase,
		MaxDiscountAmount: b.MaxDiscount,
		ApplicableTo:      b.ApplicableTo,
		EndDate:           b.EndDate,
	}
}

func (b *CouponBuilder) BuildQuoteRequestDTO(items ...reqdto.QuoteItem) reqdto.QuoteCouponRequest {
	if len(items) == 0 {
		courseID := uuid.New()
		items = []reqdto.QuoteItem{{CourseID: &courseID, Quantity: 1}}
	}
	return reqdto.QuoteCouponRequest{
		Code:  b.Code,
		Items: items,
	}
}

// Fluent builder methods
func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithPercentage(value int64, maxDiscount *decimal.Decimal) *CouponBuilder {
	b.DiscountType = "percentage"
	b.Value = decimal.NewFromInt(value)
	b.MaxDiscount = maxDiscount
	return b
}

func (b *CouponBuilder) WithFixed(value string) *CouponBuilder {
	b.DiscountType = "fixed"
	b.Value = decimal.RequireFromString(value)
	b.MaxDiscount = nil
	return b
}

func (b *CouponBuilder) WithMinPurchase(amount string) *CouponBuilder {
	b.MinPurchase = decimal.RequireFromString(amount)
	return b
}

func (b *CouponBuilder) WithScope(applicableTo string) *CouponBuilder {
	b.ApplicableTo = applicableTo
	return b
}

func (b *CouponBuilder) WithSpecificItems(items ...shared.ItemRefSnapshot) *CouponBuilder {
	b.ApplicableTo = "specific"
	b.Items = items
	return b
}

func (b *CouponBuilder) WithWindow(start *time.Time, end time.Time) *CouponBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *CouponBuilder) WithUsage(limit *int, count int) *CouponBuilder {
	b.UsageLimit = limit
	b.UsageCount = count
	return b
}

func (b *CouponBuilder) WithUserLimit(limit int) *CouponBuilder {
	b.UserLimit = limit
	return b
}

func (b *CouponBuilder) AsInactive() *CouponBuilder {
	b.IsActive = false
	return b
}

func (b *CouponBuilder) AsExpired() *CouponBuilder {
	b.EndDate = time.Now().Add(-24 * time.Hour)
	return b
}

func (b *CouponBuilder) AsExhausted() *CouponBuilder {
	limit := 5
	b.UsageLimit = &limit
	b.UsageCount = 5
	return b
}

func IntPtr(v int) *int { return &v }

func DecimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
