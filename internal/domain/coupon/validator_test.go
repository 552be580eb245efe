//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"coupon-engine/internal/domain/cart"
	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/usecase/shared"
	"coupon-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validationNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func redeemableAt(t *testing.T, now time.Time, mutate func(*builder.CouponBuilder)) *coupon.Coupon {
	t.Helper()
	b := builder.NewCouponBuilder().WithWindow(nil, now.Add(30*24*time.Hour))
	if mutate != nil {
		b.With(mutate)
	}
	entity, err := b.BuildDomain()
	require.NoError(t, err)
	return entity
}

func TestValidate(t *testing.T) {
	ct := builder.CourseCart(t, "500.00")

	t.Run("redeemable coupon is approved with eligible slice", func(t *testing.T) {
		entity := redeemableAt(t, validationNow, nil)

		result := entity.Validate(ct, 0, validationNow)

		require.True(t, result.Approved)
		assert.Empty(t, result.Reason)
		require.Len(t, result.EligibleItems, 1)
		assert.True(t, result.EligibleSubtotal.Equal(decimal.RequireFromString("500.00")))
	})

	t.Run("rejection reasons", func(t *testing.T) {
		past := validationNow.Add(-48 * time.Hour)
		expiredEnd := validationNow.Add(-time.Hour)
		futureStart := validationNow.Add(time.Hour)

		cases := []struct {
			name   string
			mutate func(*builder.CouponBuilder)
			user   int
			reason coupon.RejectionReason
		}{
			{
				name:   "inactive",
				mutate: func(b *builder.CouponBuilder) { b.AsInactive() },
				reason: coupon.ReasonInactive,
			},
			{
				name:   "not yet active",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(&futureStart, futureStart.Add(time.Hour)) },
				reason: coupon.ReasonNotYetActive,
			},
			{
				name:   "expired",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(&past, expiredEnd) },
				reason: coupon.ReasonExpired,
			},
			{
				name:   "ends exactly now",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(&past, validationNow) },
				reason: coupon.ReasonExpired,
			},
			{
				name:   "usage limit reached",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(builder.IntPtr(5), 5) },
				reason: coupon.ReasonUsageLimitReached,
			},
			{
				name:   "user limit reached",
				mutate: func(b *builder.CouponBuilder) { b.WithUserLimit(2) },
				user:   2,
				reason: coupon.ReasonUserLimitReached,
			},
			{
				name:   "nothing in scope",
				mutate: func(b *builder.CouponBuilder) { b.WithScope("ebooks") },
				reason: coupon.ReasonNotApplicable,
			},
			{
				name:   "minimum purchase not met",
				mutate: func(b *builder.CouponBuilder) { b.WithMinPurchase("1000.00") },
				reason: coupon.ReasonMinPurchaseNotMet,
			},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				entity := redeemableAt(t, validationNow, c.mutate)

				result := entity.Validate(ct, c.user, validationNow)

				require.False(t, result.Approved)
				assert.Equal(t, c.reason, result.Reason)
				assert.NotEmpty(t, result.Message)
				assert.Empty(t, result.EligibleItems)
			})
		}
	})

	t.Run("expired wins regardless of other failures", func(t *testing.T) {
		// Scenario: an expired coupon that would also fail the usage cap,
		// the user cap and the minimum purchase. The window check runs
		// first, so EXPIRED is the reported reason.
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithWindow(nil, validationNow.Add(-time.Hour)).
				WithUsage(builder.IntPtr(1), 1).
				WithMinPurchase("99999.00")
		})

		result := entity.Validate(ct, 10, validationNow)

		require.False(t, result.Approved)
		assert.Equal(t, coupon.ReasonExpired, result.Reason)
	})

	t.Run("inactive outranks expired", func(t *testing.T) {
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.AsInactive().WithWindow(nil, validationNow.Add(-time.Hour))
		})

		result := entity.Validate(ct, 0, validationNow)

		assert.Equal(t, coupon.ReasonInactive, result.Reason)
	})

	t.Run("usage cap outranks user cap", func(t *testing.T) {
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithUsage(builder.IntPtr(3), 3).WithUserLimit(1)
		})

		result := entity.Validate(ct, 1, validationNow)

		assert.Equal(t, coupon.ReasonUsageLimitReached, result.Reason)
	})

	t.Run("shortfall message names the missing amount", func(t *testing.T) {
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithMinPurchase("1000.00")
		})
		cheapCart := builder.CourseCart(t, "800.00")

		result := entity.Validate(cheapCart, 0, validationNow)

		require.Equal(t, coupon.ReasonMinPurchaseNotMet, result.Reason)
		assert.Contains(t, result.Message, "1000.00")
		assert.Contains(t, result.Message, "200.00")
	})

	t.Run("minimum purchase measured on eligible subtotal only", func(t *testing.T) {
		// 80 of courses + 5000 of ebooks: the courses-only coupon sees 80,
		// not the grand total.
		mixed := builder.NewCartBuilder().
			WithLine(t, cart.KindCourse, "course", "80.00", 1).
			WithLine(t, cart.KindEbook, "ebook", "5000.00", 1).
			Build(t)
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithScope("courses").WithMinPurchase("100.00")
		})

		result := entity.Validate(mixed, 0, validationNow)

		assert.Equal(t, coupon.ReasonMinPurchaseNotMet, result.Reason)
	})

	t.Run("specific scope matches exact item refs only", func(t *testing.T) {
		courseA := uuid.New()
		courseB := uuid.New()
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithSpecificItems(shared.ItemRefSnapshot{Kind: "course", ItemID: courseA})
		})

		cartWithB := builder.NewCartBuilder().WithItem(t, courseB, cart.KindCourse, "999.00", 1).Build(t)
		result := entity.Validate(cartWithB, 0, validationNow)
		assert.Equal(t, coupon.ReasonNotApplicable, result.Reason)

		cartWithA := builder.NewCartBuilder().WithItem(t, courseA, cart.KindCourse, "999.00", 1).Build(t)
		result = entity.Validate(cartWithA, 0, validationNow)
		assert.True(t, result.Approved)
	})

	t.Run("validation is pure and repeatable", func(t *testing.T) {
		entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) {
			b.WithUsage(builder.IntPtr(10), 3)
		})

		first := entity.Validate(ct, 0, validationNow)
		for range 5 {
			again := entity.Validate(ct, 0, validationNow)
			assert.Equal(t, first.Approved, again.Approved)
			assert.Equal(t, first.Reason, again.Reason)
			assert.True(t, first.EligibleSubtotal.Equal(again.EligibleSubtotal))
		}
		// Counters never move through validation.
		assert.Equal(t, 3, entity.Limits().UsageCount())
	})
}

func TestStatusAt(t *testing.T) {
	past := validationNow.Add(-48 * time.Hour)
	futureStart := validationNow.Add(time.Hour)

	cases := []struct {
		name   string
		mutate func(*builder.CouponBuilder)
		want   coupon.Status
	}{
		{name: "disabled", mutate: func(b *builder.CouponBuilder) { b.AsInactive() }, want: coupon.StatusDisabled},
		{
			name:   "pending",
			mutate: func(b *builder.CouponBuilder) { b.WithWindow(&futureStart, futureStart.Add(time.Hour)) },
			want:   coupon.StatusPending,
		},
		{
			name:   "expired",
			mutate: func(b *builder.CouponBuilder) { b.WithWindow(&past, validationNow.Add(-time.Minute)) },
			want:   coupon.StatusExpired,
		},
		{
			name:   "exhausted",
			mutate: func(b *builder.CouponBuilder) { b.AsExhausted() },
			want:   coupon.StatusExhausted,
		},
		{name: "redeemable", mutate: nil, want: coupon.StatusRedeemable},
		{
			name:   "disabled wins over expired",
			mutate: func(b *builder.CouponBuilder) { b.AsInactive().WithWindow(&past, validationNow.Add(-time.Minute)) },
			want:   coupon.StatusDisabled,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entity := redeemableAt(t, validationNow, c.mutate)
			assert.Equal(t, c.want, entity.StatusAt(validationNow))
		})
	}
}

func TestResolveApplicability(t *testing.T) {
	mixed := builder.NewCartBuilder().
		WithLine(t, cart.KindCourse, "course", "100.00", 2).
		WithLine(t, cart.KindEbook, "ebook", "40.00", 1).
		WithLine(t, cart.KindDemoClass, "demo", "15.00", 1).
		Build(t)

	cases := []struct {
		name     string
		scope    string
		items    int
		subtotal string
	}{
		{name: "all", scope: "all", items: 3, subtotal: "255.00"},
		{name: "courses", scope: "courses", items: 1, subtotal: "200.00"},
		{name: "ebooks", scope: "ebooks", items: 1, subtotal: "40.00"},
		{name: "demo-classes", scope: "demo-classes", items: 1, subtotal: "15.00"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entity := redeemableAt(t, validationNow, func(b *builder.CouponBuilder) { b.WithScope(c.scope) })

			app := entity.ResolveApplicability(mixed)

			assert.Len(t, app.Items, c.items)
			assert.True(t, app.Subtotal.Equal(decimal.RequireFromString(c.subtotal)),
				"subtotal %s != %s", app.Subtotal, c.subtotal)
		})
	}
}
