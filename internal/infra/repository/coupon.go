package repository

import (
	"context"
	"time"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/db"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couponColumns = `
	id, code, description, discount_type, value,
	min_purchase_amount, max_discount_amount, applicable_to,
	start_date, end_date, usage_limit, usage_count, user_limit,
	is_active, created_at, updated_at
`

type CouponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{db: pool}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	return r.findByCode(ctx, r.db, code, false)
}

// FindByCodeForUpdate locks the coupon row for the lifetime of tx, which
// serializes redemptions per coupon code.
func (r *CouponRepository) FindByCodeForUpdate(ctx context.Context, tx db.DBTX, code string) (*shared.CouponSnapshot, error) {
	return r.findByCode(ctx, tx, code, true)
}

func (r *CouponRepository) findByCode(ctx context.Context, dbtx db.DBTX, code string, forUpdate bool) (*shared.CouponSnapshot, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	snapshot, err := scanCoupon(dbtx.QueryRow(ctx, query, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	if err := r.loadScopeItems(ctx, dbtx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListRedeemable returns candidates inside their validity window; the
// derived-status filter is reapplied in the query layer from a fresh clock.
func (r *CouponRepository) ListRedeemable(ctx context.Context, now time.Time) ([]*shared.CouponSnapshot, error) {
	query := `SELECT ` + couponColumns + `
		FROM coupons
		WHERE is_active = TRUE
		  AND (start_date IS NULL OR start_date <= $1)
		  AND end_date > $1
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		ORDER BY end_date ASC`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redeemable coupons", err)
	}
	defer rows.Close()

	var snapshots []*shared.CouponSnapshot
	for rows.Next() {
		snapshot, err := scanCoupon(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}

	for _, snapshot := range snapshots {
		if err := r.loadScopeItems(ctx, r.db, snapshot); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

// CountRedemptionsByUser is the quote-time (untransacted) variant.
func (r *CouponRepository) CountRedemptionsByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	return r.CountUserRedemptions(ctx, r.db, couponID, userID)
}

func (r *CouponRepository) CountUserRedemptions(ctx context.Context, dbtx db.DBTX, couponID, userID uuid.UUID) (int, error) {
	var count int
	err := dbtx.QueryRow(ctx,
		`SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count user redemptions", err)
	}
	return count, nil
}

func (r *CouponRepository) FindRedemptionByOrder(ctx context.Context, dbtx db.DBTX, couponID, orderID uuid.UUID) (*shared.RedemptionSnapshot, error) {
	var snapshot shared.RedemptionSnapshot
	err := dbtx.QueryRow(ctx,
		`SELECT id, coupon_id, user_id, order_id, user_usage_count, discount_amount, used_at
		 FROM coupon_redemptions
		 WHERE coupon_id = $1 AND order_id = $2`,
		couponID, orderID,
	).Scan(
		&snapshot.ID, &snapshot.CouponID, &snapshot.UserID, &snapshot.OrderID,
		&snapshot.UserUsageCount, &snapshot.DiscountAmount, &snapshot.UsedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("redemption not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find redemption by order", err)
	}
	return &snapshot, nil
}

// ReserveUsage is the compare-and-swap on the global counter. The WHERE
// clause re-checks the cap inside the UPDATE itself, so the count can never
// pass usage_limit no matter how many transactions race; zero affected rows
// means the racer lost the last slot.
func (r *CouponRepository) ReserveUsage(ctx context.Context, dbtx db.DBTX, couponID uuid.UUID) (int, error) {
	var newCount int
	err := dbtx.QueryRow(ctx,
		`UPDATE coupons
		 SET usage_count = usage_count + 1, updated_at = NOW()
		 WHERE id = $1
		   AND (usage_limit IS NULL OR usage_count < usage_limit)
		 RETURNING usage_count`,
		couponID,
	).Scan(&newCount)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("coupon usage limit reached", err, infra.KindConflict)
		}
		return 0, infra.WrapRepoErr("failed to reserve coupon usage", err)
	}
	return newCount, nil
}

func (r *CouponRepository) AppendRedemption(ctx context.Context, dbtx db.DBTX, rec shared.RedemptionSnapshot) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO coupon_redemptions (id, coupon_id, user_id, order_id, user_usage_count, discount_amount, used_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.CouponID, rec.UserID, rec.OrderID, rec.UserUsageCount, rec.DiscountAmount, rec.UsedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append redemption", err)
	}
	return nil
}

func (r *CouponRepository) loadScopeItems(ctx context.Context, dbtx db.DBTX, snapshot *shared.CouponSnapshot) error {
	if snapshot.ApplicableTo != "specific" {
		return nil
	}

	rows, err := dbtx.Query(ctx,
		`SELECT item_kind, item_id FROM coupon_items WHERE coupon_id = $1`,
		snapshot.ID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to load coupon scope items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item shared.ItemRefSnapshot
		if err := rows.Scan(&item.Kind, &item.ItemID); err != nil {
			return infra.WrapRepoErr("failed to scan coupon scope item", err)
		}
		snapshot.Items = append(snapshot.Items, item)
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate coupon scope items", err)
	}
	return nil
}

type couponRow interface {
	Scan(dest ...any) error
}

func scanCoupon(row couponRow) (*shared.CouponSnapshot, error) {
	var snapshot shared.CouponSnapshot
	err := row.Scan(
		&snapshot.ID,
		&snapshot.Code,
		&snapshot.Description,
		&snapshot.DiscountType,
		&snapshot.Value,
		&snapshot.MinPurchaseAmount,
		&snapshot.MaxDiscountAmount,
		&snapshot.ApplicableTo,
		&snapshot.StartDate,
		&snapshot.EndDate,
		&snapshot.UsageLimit,
		&snapshot.UsageCount,
		&snapshot.UserLimit,
		&snapshot.IsActive,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
