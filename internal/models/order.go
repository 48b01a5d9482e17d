package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusDone    PaymentStatus = "DONE"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderItem freezes the variant price at the moment the order was placed.
type OrderItem struct {
	ID               int64           `json:"id"`
	OrderID          int64           `json:"order_id"`
	ProductVariantID int64           `json:"product_variant_id"`
	ProductName      string          `json:"product_name,omitempty"`
	Quantity         int             `json:"quantity"`
	PriceAtPurchase  decimal.Decimal `json:"price_at_purchase"`
}

type Payment struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PaymentStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Order struct {
	ID                int64           `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	ShippingAddressID int64           `json:"shipping_address_id"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingCharge    decimal.Decimal `json:"shipping_charge"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            OrderStatus     `json:"status"`
	Items             []OrderItem     `json:"items,omitempty"`
	Payment           *Payment        `json:"payment,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PlacedOrder is what a successful placement hands back to the caller,
// including the address the confirmation is sent to.
type PlacedOrder struct {
	Order           *Order           `json:"order"`
	ShippingAddress *ShippingAddress `json:"shipping_address"`
}
