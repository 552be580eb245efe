//go:build unit || e2e

package builder

import (
	"testing"

	"coupon-engine/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type CartBuilder struct {
	lines []cart.LineItem
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{}
}

func (b *CartBuilder) WithLine(t *testing.T, kind cart.ItemKind, title, unitPrice string, quantity int) *CartBuilder {
	t.Helper()
	line, err := cart.NewLineItem(uuid.New(), kind, title, decimal.RequireFromString(unitPrice), quantity)
	require.NoError(t, err)
	b.lines = append(b.lines, line)
	return b
}

func (b *CartBuilder) WithItem(t *testing.T, itemID uuid.UUID, kind cart.ItemKind, unitPrice string, quantity int) *CartBuilder {
	t.Helper()
	line, err := cart.NewLineItem(itemID, kind, "", decimal.RequireFromString(unitPrice), quantity)
	require.NoError(t, err)
	b.lines = append(b.lines, line)
	return b
}

func (b *CartBuilder) Build(t *testing.T) cart.Cart {
	t.Helper()
	ct, err := cart.New(b.lines)
	require.NoError(t, err)
	return ct
}

// CourseCart is the common single-line fixture: one course at the given
// price.
func CourseCart(t *testing.T, unitPrice string) cart.Cart {
	t.Helper()
	return NewCartBuilder().WithLine(t, cart.KindCourse, "Go Backend Bootcamp", unitPrice, 1).Build(t)
}
