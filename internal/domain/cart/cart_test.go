//go:build unit

package cart_test

import (
	"testing"

	"coupon-engine/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItem(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		li, err := cart.NewLineItem(uuid.New(), cart.KindCourse, "Go Backend Bootcamp", decimal.RequireFromString("499.00"), 2)
		require.NoError(t, err)

		assert.Equal(t, cart.KindCourse, li.Kind())
		assert.Equal(t, 2, li.Quantity())
		assert.True(t, li.Subtotal().Equal(decimal.RequireFromString("998.00")))
	})

	cases := []struct {
		name     string
		kind     cart.ItemKind
		price    string
		quantity int
		errIs    error
	}{
		{name: "unknown kind", kind: cart.ItemKind("bundle"), price: "10.00", quantity: 1, errIs: cart.ErrInvalidItemKind},
		{name: "zero quantity", kind: cart.KindEbook, price: "10.00", quantity: 0, errIs: cart.ErrInvalidQuantity},
		{name: "negative quantity", kind: cart.KindEbook, price: "10.00", quantity: -1, errIs: cart.ErrInvalidQuantity},
		{name: "negative price", kind: cart.KindEbook, price: "-0.01", quantity: 1, errIs: cart.ErrNegativePrice},
		{name: "free item is valid", kind: cart.KindDemoClass, price: "0", quantity: 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := cart.NewLineItem(uuid.New(), c.kind, "item", decimal.RequireFromString(c.price), c.quantity)
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestNewItemKind(t *testing.T) {
	for _, raw := range []string{"course", "ebook", "demo_class"} {
		k, err := cart.NewItemKind(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, k.String())
	}

	_, err := cart.NewItemKind("subscription")
	require.ErrorIs(t, err, cart.ErrInvalidItemKind)
}

func TestCart(t *testing.T) {
	t.Run("empty cart is rejected", func(t *testing.T) {
		_, err := cart.New(nil)
		require.ErrorIs(t, err, cart.ErrEmptyCart)
	})

	t.Run("total sums quantity-weighted subtotals", func(t *testing.T) {
		course, err := cart.NewLineItem(uuid.New(), cart.KindCourse, "course", decimal.RequireFromString("100.50"), 1)
		require.NoError(t, err)
		ebook, err := cart.NewLineItem(uuid.New(), cart.KindEbook, "ebook", decimal.RequireFromString("19.99"), 3)
		require.NoError(t, err)

		ct, err := cart.New([]cart.LineItem{course, ebook})
		require.NoError(t, err)

		assert.True(t, ct.Total().Equal(decimal.RequireFromString("160.47")))
	})

	t.Run("items preserve insertion order", func(t *testing.T) {
		first, err := cart.NewLineItem(uuid.New(), cart.KindEbook, "first", decimal.NewFromInt(1), 1)
		require.NoError(t, err)
		second, err := cart.NewLineItem(uuid.New(), cart.KindCourse, "second", decimal.NewFromInt(2), 1)
		require.NoError(t, err)

		ct, err := cart.New([]cart.LineItem{first, second})
		require.NoError(t, err)

		items := ct.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "first", items[0].Title())
		assert.Equal(t, "second", items[1].Title())
	})
}
