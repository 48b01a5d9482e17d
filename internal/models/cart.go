package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrQuantityNotNumeric = errors.New("quantity must be a whole number")

// MaxLineQuantity bounds a single cart line, increments included.
const MaxLineQuantity = 10000

type Cart struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is a cart line joined with the variant it points at.
type CartItem struct {
	ID               int64           `json:"id"`
	CartID           int64           `json:"cart_id"`
	ProductVariantID int64           `json:"product_variant_id"`
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Size             Size            `json:"size"`
	Color            string          `json:"color"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
}

type CartLine struct {
	CartItem
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartTotals struct {
	Lines    []CartLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ComputeTotals prices every line at quantity x unit price and sums them.
// It has no side effects and is shared by the cart, checkout review and
// order placement.
func ComputeTotals(items []CartItem) CartTotals {

	totals := CartTotals{
		Lines:    make([]CartLine, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.Lines = append(totals.Lines, CartLine{CartItem: item, LineTotal: lineTotal})
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
	}

	return totals
}

type CartSummary struct {
	Cart      *Cart           `json:"cart"`
	Lines     []CartLine      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

type CheckoutReview struct {
	ShippingAddress *ShippingAddress `json:"shipping_address"`
	Lines           []CartLine       `json:"lines"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	ShippingCharge  decimal.Decimal  `json:"shipping_charge"`
	Total           decimal.Decimal  `json:"total"`
}

// Quantity accepts a JSON number or a numeric string.
type Quantity json.RawMessage

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = append((*q)[0:0], data...)

	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if len(q) == 0 {
		return []byte("null"), nil
	}

	return []byte(q), nil
}

func (q Quantity) Int() (int, error) {
	raw := strings.Trim(strings.TrimSpace(string(q)), `"`)
	if raw == "" {
		return 0, ErrQuantityNotNumeric
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrQuantityNotNumeric
	}

	return n, nil
}

type AddItemRequest struct {
	ProductVariantID int64    `json:"product_variant_id" validate:"required,gt=0"`
	Quantity         Quantity `json:"quantity" validate:"required"`
}

type UpdateQuantityRequest struct {
	Quantity Quantity `json:"quantity" validate:"required"`
}
