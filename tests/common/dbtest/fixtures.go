//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"coupon-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateCatalogItem(t *testing.T, db DBLike, kind, title, unitPrice string) uuid.UUID {
	t.Helper()

	itemID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO catalog_items (id, kind, title, unit_price) VALUES ($1, $2, $3, $4)",
		itemID, kind, title, unitPrice)
	require.NoError(t, err)

	return itemID
}

// CreateCoupon persists the builder state and returns the coupon id. The
// builder carries raw column values, so invalid-by-domain rows cannot sneak
// in: the schema enforces the same invariants.
func CreateCoupon(t *testing.T, db DBLike, b *builder.CouponBuilder) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	snapshot := b.BuildSnapshot()

	_, err := db.Exec(ctx, `
		INSERT INTO coupons (id, code, description, discount_type, value, min_purchase_amount,
		                     max_discount_amount, applicable_to, start_date, end_date,
		                     usage_limit, usage_count, user_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		snapshot.ID, snapshot.Code, snapshot.Description, snapshot.DiscountType,
		snapshot.Value, snapshot.MinPurchaseAmount, snapshot.MaxDiscountAmount,
		snapshot.ApplicableTo, snapshot.StartDate, snapshot.EndDate,
		snapshot.UsageLimit, snapshot.UsageCount, snapshot.UserLimit, snapshot.IsActive)
	require.NoError(t, err)

	for _, item := range snapshot.Items {
		_, err := db.Exec(ctx,
			"INSERT INTO coupon_items (coupon_id, item_kind, item_id) VALUES ($1, $2, $3)",
			snapshot.ID, item.Kind, item.ItemID)
		require.NoError(t, err)
	}

	return snapshot.ID
}

func CountRedemptions(t *testing.T, db DBLike, couponID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = $1", couponID).Scan(&count)
	require.NoError(t, err)
	return count
}

func UsageCount(t *testing.T, db DBLike, couponID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT usage_count FROM coupons WHERE id = $1", couponID).Scan(&count)
	require.NoError(t, err)
	return count
}

// ResetDB truncates all mutable tables between sub-tests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"TRUNCATE coupon_redemptions, coupon_items, coupons, catalog_items CASCADE")
	return err
}
