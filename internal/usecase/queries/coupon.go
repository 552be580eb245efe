package queries

import (
	"context"
	"time"

	"coupon-engine/internal/domain/cart"
	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoResolvableItems       = errs.New("no cart items could be resolved against the catalog")
	ErrCouponConfigCorrupted   = errs.New("stored coupon violates domain invariants")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// QuoteItemParam is one cart line as the storefront sends it: a typed item
// ref plus quantity, price still unknown.
type QuoteItemParam struct {
	Kind     string
	ItemID   uuid.UUID
	Quantity int
}

type QuoteParams struct {
	Code   string
	UserID *uuid.UUID
	Items  []QuoteItemParam
}

type CouponSummary struct {
	Code        string
	Type        string
	Value       decimal.Decimal
	Description *string
}

// QuoteView is advisory: the numbers a redemption would commit right now.
type QuoteView struct {
	Valid             bool
	Coupon            *CouponSummary
	Discount          decimal.Decimal
	CartTotal         decimal.Decimal
	FinalTotal        decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	Reason            coupon.RejectionReason
	Message           string
}

type ActiveCouponView struct {
	Code              string
	Type              string
	Value             decimal.Decimal
	Description       *string
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ApplicableTo      string
	EndDate           time.Time
}

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error)
	ListRedeemable(ctx context.Context, now time.Time) ([]*shared.CouponSnapshot, error)
	CountRedemptionsByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error)
}

type CatalogReadStore interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.CatalogItemSnapshot, error)
}

type CouponQueries interface {
	Quote(ctx context.Context, params QuoteParams) (*QuoteView, error)
	ListActive(ctx context.Context) ([]*ActiveCouponView, error)
}

type couponQueriesImpl struct {
	couponStore  CouponReadStore
	catalogStore CatalogReadStore
	clock        clock.Clock
}

func NewCouponQueries(couponStore CouponReadStore, catalogStore CatalogReadStore, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{
		couponStore:  couponStore,
		catalogStore: catalogStore,
		clock:        clk,
	}
}

// Quote runs the full validation pipeline without touching any counter, so
// the storefront may call it on every cart refresh.
func (q *couponQueriesImpl) Quote(ctx context.Context, params QuoteParams) (*QuoteView, error) {
	priced, err := q.priceCart(ctx, params.Items)
	if err != nil {
		return nil, err
	}

	code := coupon.Canonicalize(params.Code)
	snapshot, err := q.couponStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return rejectedQuote(coupon.Reject(coupon.ReasonNotFound)), nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := snapshot.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrCouponConfigCorrupted)
	}

	userRedemptions := 0
	if params.UserID != nil {
		userRedemptions, err = q.couponStore.CountRedemptionsByUser(ctx, entity.ID(), *params.UserID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	result := entity.Validate(priced, userRedemptions, q.clock.Now())
	if !result.Approved {
		return rejectedQuote(result), nil
	}

	breakdown := entity.ComputeDiscount(result.EligibleSubtotal)
	cartTotal := priced.Total()

	return &QuoteView{
		Valid: true,
		Coupon: &CouponSummary{
			Code:        entity.Code().String(),
			Type:        string(entity.Discount().Type()),
			Value:       entity.Discount().Value(),
			Description: snapshot.Description,
		},
		Discount:          breakdown.Discount,
		CartTotal:         cartTotal,
		FinalTotal:        cartTotal.Sub(breakdown.Discount),
		MinPurchaseAmount: entity.MinPurchase(),
	}, nil
}

func (q *couponQueriesImpl) ListActive(ctx context.Context) ([]*ActiveCouponView, error) {
	now := q.clock.Now()
	snapshots, err := q.couponStore.ListRedeemable(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	views := make([]*ActiveCouponView, 0, len(snapshots))
	for _, snapshot := range snapshots {
		entity, err := snapshot.ToDomain()
		if err != nil {
			return nil, errs.Mark(err, ErrCouponConfigCorrupted)
		}
		// The SQL filter is a coarse prefilter; the projection from a fresh
		// clock is authoritative.
		if entity.StatusAt(now) != coupon.StatusRedeemable {
			continue
		}
		views = append(views, &ActiveCouponView{
			Code:              entity.Code().String(),
			Type:              string(entity.Discount().Type()),
			Value:             entity.Discount().Value(),
			Description:       snapshot.Description,
			MinPurchaseAmount: entity.MinPurchase(),
			MaxDiscountAmount: entity.Discount().MaxAmount(),
			ApplicableTo:      string(entity.Scope().Kind()),
			EndDate:           entity.Window().End(),
		})
	}
	return views, nil
}

// priceCart resolves item refs against the catalog. Stale refs (deleted
// items, kind mismatches) are skipped the way the storefront drops stale
// cart rows; a cart where nothing resolves is a caller error.
func (q *couponQueriesImpl) priceCart(ctx context.Context, items []QuoteItemParam) (cart.Cart, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ItemID)
	}

	catalogItems, err := q.catalogStore.FindByIDs(ctx, ids)
	if err != nil {
		return cart.Cart{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	byID := make(map[uuid.UUID]shared.CatalogItemSnapshot, len(catalogItems))
	for _, ci := range catalogItems {
		byID[ci.ID] = ci
	}

	var lines []cart.LineItem
	for _, item := range items {
		ci, ok := byID[item.ItemID]
		if !ok || ci.Kind != item.Kind {
			continue
		}
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		line, err := cart.NewLineItem(ci.ID, cart.ItemKind(ci.Kind), ci.Title, ci.UnitPrice, quantity)
		if err != nil {
			return cart.Cart{}, err
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return cart.Cart{}, ErrNoResolvableItems
	}
	return cart.New(lines)
}

func rejectedQuote(result coupon.Result) *QuoteView {
	return &QuoteView{
		Valid:   false,
		Reason:  result.Reason,
		Message: result.Message,
	}
}
