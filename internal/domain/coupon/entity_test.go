//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CouponBuilder)
	errIs  error
}

func TestCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "SAVE20", actual.Code().String())
		assert.True(t, actual.IsActive())
		assert.Equal(t, coupon.TypePercentage, actual.Discount().Type())
		assert.Equal(t, coupon.ScopeAll, actual.Scope().Kind())
	})

	t.Run("code validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "lowercase input is canonicalized",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("save20") },
			},
			{
				name:   "surrounding whitespace is trimmed",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("  SAVE20  ") },
			},
			{
				name:   "minimum length code",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("ABC") },
			},
			{
				name:   "maximum length code",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("ABCDEFGHIJKLMNOPQRSTUVW1") },
			},
			{
				name:   "too short",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("AB") },
				errIs:  coupon.ErrInvalidCode,
			},
			{
				name:   "too long",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("ABCDEFGHIJKLMNOPQRSTUVWX2") },
				errIs:  coupon.ErrInvalidCode,
			},
			{
				name:   "special characters",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("SAVE-20") },
				errIs:  coupon.ErrInvalidCode,
			},
			{
				name:   "empty code",
				mutate: func(b *builder.CouponBuilder) { b.WithCode("") },
				errIs:  coupon.ErrInvalidCode,
			},
		})
	})

	t.Run("discount validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "full percentage",
				mutate: func(b *builder.CouponBuilder) { b.WithPercentage(100, nil) },
			},
			{
				name:   "zero percentage",
				mutate: func(b *builder.CouponBuilder) { b.WithPercentage(0, nil) },
				errIs:  coupon.ErrInvalidPercentValue,
			},
			{
				name:   "percentage above 100",
				mutate: func(b *builder.CouponBuilder) { b.WithPercentage(120, nil) },
				errIs:  coupon.ErrInvalidPercentValue,
			},
			{
				name:   "percentage with positive cap",
				mutate: func(b *builder.CouponBuilder) { b.WithPercentage(20, builder.DecimalPtr("50.00")) },
			},
			{
				name:   "percentage with zero cap",
				mutate: func(b *builder.CouponBuilder) { b.WithPercentage(20, builder.DecimalPtr("0")) },
				errIs:  coupon.ErrInvalidMaxDiscount,
			},
			{
				name:   "fixed amount",
				mutate: func(b *builder.CouponBuilder) { b.WithFixed("100.00") },
			},
			{
				name:   "zero fixed amount",
				mutate: func(b *builder.CouponBuilder) { b.WithFixed("0") },
				errIs:  coupon.ErrInvalidFixedValue,
			},
			{
				name: "cap on a fixed discount",
				mutate: func(b *builder.CouponBuilder) {
					b.WithFixed("100.00")
					b.MaxDiscount = builder.DecimalPtr("50.00")
				},
				errIs: coupon.ErrMaxDiscountOnFixed,
			},
		})
	})

	t.Run("scope validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "courses scope",
				mutate: func(b *builder.CouponBuilder) { b.WithScope("courses") },
			},
			{
				name:   "demo-classes scope",
				mutate: func(b *builder.CouponBuilder) { b.WithScope("demo-classes") },
			},
			{
				name:   "unknown scope",
				mutate: func(b *builder.CouponBuilder) { b.WithScope("bundles") },
				errIs:  coupon.ErrInvalidScope,
			},
			{
				name:   "specific scope without items",
				mutate: func(b *builder.CouponBuilder) { b.WithScope("specific") },
				errIs:  coupon.ErrEmptySpecificItems,
			},
		})
	})

	t.Run("window validation", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		afterEnd := end.Add(time.Hour)
		runCases(t, []testCase{
			{
				name:   "open start is valid",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(nil, end) },
			},
			{
				name:   "missing end date",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(nil, time.Time{}) },
				errIs:  coupon.ErrMissingEndDate,
			},
			{
				name:   "start after end",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(&afterEnd, end) },
				errIs:  coupon.ErrInvalidValidityWindow,
			},
			{
				name:   "start equal to end",
				mutate: func(b *builder.CouponBuilder) { b.WithWindow(&end, end) },
				errIs:  coupon.ErrInvalidValidityWindow,
			},
		})
	})

	t.Run("limits validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "unlimited usage",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(nil, 42) },
			},
			{
				name:   "count at limit",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(builder.IntPtr(5), 5) },
			},
			{
				name:   "zero usage limit",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(builder.IntPtr(0), 0) },
				errIs:  coupon.ErrInvalidUsageLimit,
			},
			{
				name:   "negative usage count",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(nil, -1) },
				errIs:  coupon.ErrNegativeUsageCount,
			},
			{
				name:   "count beyond limit",
				mutate: func(b *builder.CouponBuilder) { b.WithUsage(builder.IntPtr(5), 6) },
				errIs:  coupon.ErrUsageCountOverflow,
			},
			{
				name:   "zero user limit",
				mutate: func(b *builder.CouponBuilder) { b.WithUserLimit(0) },
				errIs:  coupon.ErrInvalidUserLimit,
			},
		})
	})

	t.Run("negative minimum purchase", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "negative amount",
				mutate: func(b *builder.CouponBuilder) { b.WithMinPurchase("-1.00") },
				errIs:  coupon.ErrNegativeMinPurchase,
			},
		})
	})

	t.Run("nil ID generates a fresh UUID", func(t *testing.T) {
		first, err1 := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) { b.ID = uuid.Nil }).BuildDomain()
		second, err2 := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) { b.ID = uuid.Nil }).BuildDomain()

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, uuid.Nil, first.ID())
		assert.NotEqual(t, first.ID(), second.ID())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewCouponBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
