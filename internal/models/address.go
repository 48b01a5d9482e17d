package models

import (
	"time"

	"github.com/google/uuid"
)

type ShippingAddress struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientPhone string    `json:"recipient_phone"`
	Address        string    `json:"address"`
	PostalCode     int       `json:"postal_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ShippingAddressRequest struct {
	RecipientName  string `json:"recipient_name" validate:"required,max=255"`
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	RecipientPhone string `json:"recipient_phone" validate:"required,max=20"`
	Address        string `json:"address" validate:"required,max=255"`
	PostalCode     int    `json:"postal_code" validate:"gte=0"`
}
