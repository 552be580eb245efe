//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/usecase/queries"
	"coupon-engine/internal/usecase/shared"
	"coupon-engine/tests/common/builder"
	repositorymock "coupon-engine/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var quoteNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type queryFixture struct {
	couponStore  *repositorymock.MockCouponReadStore
	catalogStore *repositorymock.MockCatalogReadStore
	queries      queries.CouponQueries
}

func newQueryFixture(t *testing.T) *queryFixture {
	ctrl := gomock.NewController(t)
	couponStore := repositorymock.NewMockCouponReadStore(ctrl)
	catalogStore := repositorymock.NewMockCatalogReadStore(ctrl)
	return &queryFixture{
		couponStore:  couponStore,
		catalogStore: catalogStore,
		queries:      queries.NewCouponQueries(couponStore, catalogStore, clock.NewFixedClock(quoteNow)),
	}
}

func courseRow(id uuid.UUID, price string) shared.CatalogItemSnapshot {
	return shared.CatalogItemSnapshot{
		ID:        id,
		Kind:      "course",
		Title:     "Go Backend Bootcamp",
		UnitPrice: decimal.RequireFromString(price),
	}
}

func redeemableSnapshot(mutate func(*builder.CouponBuilder)) *shared.CouponSnapshot {
	b := builder.NewCouponBuilder().WithWindow(nil, quoteNow.Add(30*24*time.Hour))
	if mutate != nil {
		b.With(mutate)
	}
	return b.BuildSnapshot()
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()

	baseParams := queries.QuoteParams{
		Code:  "SAVE20",
		Items: []queries.QuoteItemParam{{Kind: "course", ItemID: courseID, Quantity: 1}},
	}

	t.Run("success: approved quote carries the full breakdown", func(t *testing.T) {
		f := newQueryFixture(t)
		f.catalogStore.EXPECT().FindByIDs(ctx, []uuid.UUID{courseID}).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").
			Return(redeemableSnapshot(nil), nil)

		view, err := f.queries.Quote(ctx, baseParams)
		require.NoError(t, err)

		require.True(t, view.Valid)
		require.NotNil(t, view.Coupon)
		assert.Equal(t, "SAVE20", view.Coupon.Code)
		assert.True(t, view.Discount.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, view.CartTotal.Equal(decimal.RequireFromString("500.00")))
		assert.True(t, view.FinalTotal.Equal(decimal.RequireFromString("400.00")))
	})

	t.Run("success: code is canonicalized before lookup", func(t *testing.T) {
		f := newQueryFixture(t)
		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").
			Return(redeemableSnapshot(nil), nil)

		params := baseParams
		params.Code = "  save20  "

		view, err := f.queries.Quote(ctx, params)
		require.NoError(t, err)
		assert.True(t, view.Valid)
	})

	t.Run("success: per-user count consulted only when userId present", func(t *testing.T) {
		f := newQueryFixture(t)
		userID := uuid.New()
		snapshot := redeemableSnapshot(func(b *builder.CouponBuilder) { b.WithUserLimit(1) })

		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").Return(snapshot, nil)
		f.couponStore.EXPECT().CountRedemptionsByUser(ctx, snapshot.ID, userID).Return(1, nil)

		params := baseParams
		params.UserID = &userID

		view, err := f.queries.Quote(ctx, params)
		require.NoError(t, err)
		assert.False(t, view.Valid)
		assert.Equal(t, coupon.ReasonUserLimitReached, view.Reason)
	})

	t.Run("rejection: unknown code is a value, not an error", func(t *testing.T) {
		f := newQueryFixture(t)
		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").
			Return(nil, infra.WrapRepoErr("coupon not found", errors.New("no rows"), infra.KindNotFound))

		view, err := f.queries.Quote(ctx, baseParams)
		require.NoError(t, err)
		assert.False(t, view.Valid)
		assert.Equal(t, coupon.ReasonNotFound, view.Reason)
		assert.Equal(t, "coupon not found", view.Message)
	})

	t.Run("error: store failure surfaces as marked error", func(t *testing.T) {
		f := newQueryFixture(t)
		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").
			Return(nil, infra.WrapRepoErr("query failed", errors.New("connection refused")))

		_, err := f.queries.Quote(ctx, baseParams)
		require.ErrorIs(t, err, queries.ErrDatabaseOperationFailed)
	})

	t.Run("error: corrupted stored coupon", func(t *testing.T) {
		f := newQueryFixture(t)
		broken := redeemableSnapshot(nil)
		broken.DiscountType = "raffle"

		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").Return(broken, nil)

		_, err := f.queries.Quote(ctx, baseParams)
		require.ErrorIs(t, err, queries.ErrCouponConfigCorrupted)
	})

	t.Run("cart resolution: stale refs are skipped, empty result is an error", func(t *testing.T) {
		f := newQueryFixture(t)
		staleID := uuid.New()

		// One id unknown to the catalog, one resolving to a different kind.
		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{{ID: staleID, Kind: "ebook", Title: "x", UnitPrice: decimal.NewFromInt(10)}}, nil)

		params := queries.QuoteParams{
			Code: "SAVE20",
			Items: []queries.QuoteItemParam{
				{Kind: "course", ItemID: uuid.New(), Quantity: 1},
				{Kind: "course", ItemID: staleID, Quantity: 1},
			},
		}

		_, err := f.queries.Quote(ctx, params)
		require.ErrorIs(t, err, queries.ErrNoResolvableItems)
	})

	t.Run("cart resolution: missing quantity defaults to one", func(t *testing.T) {
		f := newQueryFixture(t)
		f.catalogStore.EXPECT().FindByIDs(ctx, gomock.Any()).
			Return([]shared.CatalogItemSnapshot{courseRow(courseID, "500.00")}, nil)
		f.couponStore.EXPECT().FindByCode(ctx, "SAVE20").
			Return(redeemableSnapshot(nil), nil)

		params := baseParams
		params.Items = []queries.QuoteItemParam{{Kind: "course", ItemID: courseID}}

		view, err := f.queries.Quote(ctx, params)
		require.NoError(t, err)
		assert.True(t, view.CartTotal.Equal(decimal.RequireFromString("500.00")))
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()

	t.Run("success: projection re-filters what SQL let through", func(t *testing.T) {
		f := newQueryFixture(t)

		live := redeemableSnapshot(func(b *builder.CouponBuilder) { b.WithCode("LIVE01") })
		// Passed the coarse SQL filter but the derived status says expired.
		edge := redeemableSnapshot(func(b *builder.CouponBuilder) {
			b.WithCode("BYGONE").WithWindow(nil, quoteNow.Add(-time.Second))
		})

		f.couponStore.EXPECT().ListRedeemable(ctx, quoteNow).
			Return([]*shared.CouponSnapshot{live, edge}, nil)

		views, err := f.queries.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "LIVE01", views[0].Code)
	})

	t.Run("error: store failure surfaces as marked error", func(t *testing.T) {
		f := newQueryFixture(t)
		f.couponStore.EXPECT().ListRedeemable(ctx, quoteNow).
			Return(nil, infra.WrapRepoErr("query failed", errors.New("connection refused")))

		_, err := f.queries.ListActive(ctx)
		require.ErrorIs(t, err, queries.ErrDatabaseOperationFailed)
	})
}
