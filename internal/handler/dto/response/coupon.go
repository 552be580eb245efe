package response

import (
	"time"

	"coupon-engine/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

type QuoteCouponResponse struct {
	Valid             bool           `json:"valid"`
	Coupon            *CouponSummary `json:"coupon,omitempty"`
	Discount          *float64       `json:"discount,omitempty"`
	CartTotal         *float64       `json:"cartTotal,omitempty"`
	FinalTotal        *float64       `json:"finalTotal,omitempty"`
	MinPurchaseAmount *float64       `json:"minPurchaseAmount,omitempty"`
	Message           string         `json:"message,omitempty"`
}

type CouponSummary struct {
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description *string `json:"description,omitempty"`
}

type ActiveCouponResponse struct {
	Code              string    `json:"code"`
	Type              string    `json:"type"`
	Value             float64   `json:"value"`
	Description       *string   `json:"description,omitempty"`
	MinPurchaseAmount float64   `json:"minPurchaseAmount"`
	MaxDiscountAmount *float64  `json:"maxDiscountAmount,omitempty"`
	ApplicableTo      string    `json:"applicableTo"`
	EndDate           time.Time `json:"endDate"`
}

func FromQuoteView(view *queries.QuoteView) *QuoteCouponResponse {
	if !view.Valid {
		return &QuoteCouponResponse{
			Valid:   false,
			Message: view.Message,
		}
	}

	return &QuoteCouponResponse{
		Valid: true,
		Coupon: &CouponSummary{
			Code:        view.Coupon.Code,
			Type:        view.Coupon.Type,
			Value:       view.Coupon.Value.InexactFloat64(),
			Description: view.Coupon.Description,
		},
		Discount:          numberPtr(view.Discount),
		CartTotal:         numberPtr(view.CartTotal),
		FinalTotal:        numberPtr(view.FinalTotal),
		MinPurchaseAmount: numberPtr(view.MinPurchaseAmount),
	}
}

func FromActiveCouponView(view *queries.ActiveCouponView) *ActiveCouponResponse {
	resp := &ActiveCouponResponse{
		Code:              view.Code,
		Type:              view.Type,
		Value:             view.Value.InexactFloat64(),
		Description:       view.Description,
		MinPurchaseAmount: view.MinPurchaseAmount.InexactFloat64(),
		ApplicableTo:      view.ApplicableTo,
		EndDate:           view.EndDate,
	}
	if view.MaxDiscountAmount != nil {
		resp.MaxDiscountAmount = numberPtr(*view.MaxDiscountAmount)
	}
	return resp
}

func numberPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
