package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart must contain at least one line item")
	ErrInvalidItemKind = errors.New("unknown catalog item kind")
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
	ErrNegativePrice   = errors.New("line item unit price cannot be negative")
)

type ItemKind string

const (
	KindCourse    ItemKind = "course"
	KindEbook     ItemKind = "ebook"
	KindDemoClass ItemKind = "demo_class"
)

func NewItemKind(raw string) (ItemKind, error) {
	k := ItemKind(raw)
	switch k {
	case KindCourse, KindEbook, KindDemoClass:
		return k, nil
	}
	return "", ErrInvalidItemKind
}

func (k ItemKind) String() string {
	return string(k)
}

type LineItem struct {
	itemID    uuid.UUID
	kind      ItemKind
	title     string
	unitPrice decimal.Decimal
	quantity  int
}

func NewLineItem(itemID uuid.UUID, kind ItemKind, title string, unitPrice decimal.Decimal, quantity int) (LineItem, error) {
	if _, err := NewItemKind(string(kind)); err != nil {
		return LineItem{}, err
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return LineItem{}, ErrNegativePrice
	}
	return LineItem{
		itemID:    itemID,
		kind:      kind,
		title:     title,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func (li LineItem) ItemID() uuid.UUID          { return li.itemID }
func (li LineItem) Kind() ItemKind             { return li.kind }
func (li LineItem) Title() string              { return li.title }
func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }
func (li LineItem) Quantity() int              { return li.quantity }

func (li LineItem) Subtotal() decimal.Decimal {
	return li.unitPrice.Mul(decimal.NewFromInt(int64(li.quantity)))
}

// Cart is an ordered, already-priced snapshot of what the shopper is buying.
// It carries no persistence concerns; pricing happened upstream.
type Cart struct {
	items []LineItem
}

func New(items []LineItem) (Cart, error) {
	if len(items) == 0 {
		return Cart{}, ErrEmptyCart
	}
	copied := make([]LineItem, len(items))
	copy(copied, items)
	return Cart{items: copied}, nil
}

func (c Cart) Items() []LineItem {
	return c.items
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.items {
		total = total.Add(li.Subtotal())
	}
	return total
}
