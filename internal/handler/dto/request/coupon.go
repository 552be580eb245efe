package request

import (
	"strings"

	"coupon-engine/internal/domain/cart"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteCouponRequest struct {
	Code   string      `json:"code" binding:"required"`
	Items  []QuoteItem `json:"items" binding:"required,min=1,dive"`
	UserID *uuid.UUID  `json:"userId,omitempty"`
}

// QuoteItem mirrors the storefront cart row: exactly one of the id fields
// is expected to be set, and the field name carries the item kind.
type QuoteItem struct {
	CourseID    *uuid.UUID `json:"courseId,omitempty"`
	EbookID     *uuid.UUID `json:"ebookId,omitempty"`
	DemoClassID *uuid.UUID `json:"demoClassId,omitempty"`
	Quantity    int        `json:"quantity,omitempty" binding:"omitempty,min=1"`
}

func (i QuoteItem) toParam() (queries.QuoteItemParam, bool) {
	switch {
	case i.CourseID != nil:
		return queries.QuoteItemParam{Kind: string(cart.KindCourse), ItemID: *i.CourseID, Quantity: i.Quantity}, true
	case i.EbookID != nil:
		return queries.QuoteItemParam{Kind: string(cart.KindEbook), ItemID: *i.EbookID, Quantity: i.Quantity}, true
	case i.DemoClassID != nil:
		return queries.QuoteItemParam{Kind: string(cart.KindDemoClass), ItemID: *i.DemoClassID, Quantity: i.Quantity}, true
	}
	return queries.QuoteItemParam{}, false
}

// ToParams drops rows with no id at all; fully-empty carts are caught by
// binding and the query layer.
func (r QuoteCouponRequest) ToParams() queries.QuoteParams {
	params := queries.QuoteParams{
		Code:   strings.TrimSpace(r.Code),
		UserID: r.UserID,
	}
	for _, item := range r.Items {
		if p, ok := item.toParam(); ok {
			params.Items = append(params.Items, p)
		}
	}
	return params
}
