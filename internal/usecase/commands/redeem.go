package commands

import (
	"context"
	"errors"
	"log/slog"

	"coupon-engine/internal/domain/cart"
	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrDomainValidation        = errs.New("domain validation error")
	ErrCouponConfigCorrupted   = errs.New("stored coupon violates domain invariants")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// RedeemLine is one already-priced order line handed over by the order
// service at commit time.
type RedeemLine struct {
	Kind      string
	ItemID    uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

type RedeemParams struct {
	Code    string
	UserID  uuid.UUID
	OrderID uuid.UUID
	Lines   []RedeemLine
}

// RedeemResult reports either the committed discount or a taxonomy
// rejection; losing a usage-cap race is a rejection, not an error.
type RedeemResult struct {
	Approved   bool
	Reason     coupon.RejectionReason
	Message    string
	CouponID   uuid.UUID
	Code       string
	Discount   decimal.Decimal
	CartTotal  decimal.Decimal
	FinalTotal decimal.Decimal
	UsageCount int
	Replayed   bool
}

type CouponCommands interface {
	Redeem(ctx context.Context, params RedeemParams) (*RedeemResult, error)
}

type couponCommandsImpl struct {
	couponRepo CouponRepository
	db         *pgxpool.Pool
	clock      clock.Clock
}

func NewCouponCommands(couponRepo CouponRepository, db *pgxpool.Pool, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{
		couponRepo: couponRepo,
		db:         db,
		clock:      clk,
	}
}

// Redeem consumes one coupon use for an order, exactly once per order id.
// The whole check-then-increment sequence runs in a single transaction that
// holds the coupon row lock, so redemptions are serialized per coupon code
// and the usage cap is never transiently exceeded. An earlier quote is never
// trusted: validation reruns from the locked, current state.
func (c *couponCommandsImpl) Redeem(ctx context.Context, params RedeemParams) (*RedeemResult, error) {
	priced, err := c.buildCart(params.Lines)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	cartTotal := priced.Total()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback redemption transaction", "error", rollbackErr)
		}
	}()

	code := coupon.Canonicalize(params.Code)
	snapshot, err := c.couponRepo.FindByCodeForUpdate(ctx, tx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return rejectedRedeem(coupon.Reject(coupon.ReasonNotFound), cartTotal), nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Replayed order commits (retried webhooks) return the originally
	// committed amounts without touching any counter.
	existing, err := c.couponRepo.FindRedemptionByOrder(ctx, tx, snapshot.ID, params.OrderID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if existing != nil {
		return &RedeemResult{
			Approved:   true,
			CouponID:   snapshot.ID,
			Code:       snapshot.Code,
			Discount:   existing.DiscountAmount,
			CartTotal:  cartTotal,
			FinalTotal: cartTotal.Sub(existing.DiscountAmount),
			UsageCount: snapshot.UsageCount,
			Replayed:   true,
		}, nil
	}

	entity, err := snapshot.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrCouponConfigCorrupted)
	}

	userRedemptions, err := c.couponRepo.CountUserRedemptions(ctx, tx, entity.ID(), params.UserID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	result := entity.Validate(priced, userRedemptions, now)
	if !result.Approved {
		return rejectedRedeem(result, cartTotal), nil
	}

	breakdown := entity.ComputeDiscount(result.EligibleSubtotal)

	// The conditional UPDATE is the last line of defense should the row
	// lock ever be bypassed; losing it maps to the same taxonomy the
	// validator produces.
	newCount, err := c.couponRepo.ReserveUsage(ctx, tx, entity.ID())
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return rejectedRedeem(coupon.Reject(coupon.ReasonUsageLimitReached), cartTotal), nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	err = c.couponRepo.AppendRedemption(ctx, tx, shared.RedemptionSnapshot{
		ID:             uuid.New(),
		CouponID:       entity.ID(),
		UserID:         params.UserID,
		OrderID:        params.OrderID,
		UserUsageCount: userRedemptions + 1,
		DiscountAmount: breakdown.Discount,
		UsedAt:         now,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return nil, errs.Mark(commitErr, ErrDatabaseOperationFailed)
	}

	return &RedeemResult{
		Approved:   true,
		CouponID:   entity.ID(),
		Code:       entity.Code().String(),
		Discount:   breakdown.Discount,
		CartTotal:  cartTotal,
		FinalTotal: cartTotal.Sub(breakdown.Discount),
		UsageCount: newCount,
	}, nil
}

func (c *couponCommandsImpl) buildCart(lines []RedeemLine) (cart.Cart, error) {
	items := make([]cart.LineItem, 0, len(lines))
	for _, line := range lines {
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}
		item, err := cart.NewLineItem(line.ItemID, cart.ItemKind(line.Kind), "", line.UnitPrice, quantity)
		if err != nil {
			return cart.Cart{}, err
		}
		items = append(items, item)
	}
	return cart.New(items)
}

func rejectedRedeem(result coupon.Result, cartTotal decimal.Decimal) *RedeemResult {
	return &RedeemResult{
		Reason:     result.Reason,
		Message:    result.Message,
		CartTotal:  cartTotal,
		FinalTotal: cartTotal,
	}
}
