package commands

import (
	"context"

	"coupon-engine/internal/infra/db"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// CouponRepository is the write-side port. Every method that takes a DBTX
// participates in the redemption transaction begun by the command layer.
type CouponRepository interface {
	FindByCodeForUpdate(ctx context.Context, tx db.DBTX, code string) (*shared.CouponSnapshot, error)
	FindRedemptionByOrder(ctx context.Context, tx db.DBTX, couponID, orderID uuid.UUID) (*shared.RedemptionSnapshot, error)
	CountUserRedemptions(ctx context.Context, tx db.DBTX, couponID, userID uuid.UUID) (int, error)
	ReserveUsage(ctx context.Context, tx db.DBTX, couponID uuid.UUID) (int, error)
	AppendRedemption(ctx context.Context, tx db.DBTX, rec shared.RedemptionSnapshot) error
}
