package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type AddressRepository interface {
	GetLatest(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error)
	Save(ctx context.Context, address *models.ShippingAddress) error
}

type addressRepository struct {
	DB *sql.DB
}

func NewAddressRepo(db *sql.DB) AddressRepository {
	return &addressRepository{DB: db}
}

const latestAddressQuery = `
		SELECT id, user_id, recipient_name, recipient_email, recipient_phone, address, postal_code, created_at, updated_at
		FROM shipping_addresses
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

func latestAddress(ctx context.Context, q querier, userID uuid.UUID) (*models.ShippingAddress, error) {

	a := &models.ShippingAddress{}

	err := q.QueryRowContext(ctx, latestAddressQuery, userID).Scan(&a.ID, &a.UserID, &a.RecipientName, &a.RecipientEmail, &a.RecipientPhone, &a.Address, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shipping address: %w", err)
	}

	return a, nil
}

func (r *addressRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return latestAddress(dbCtx, r.DB, userID)
}

// Save overwrites the user's latest address, or inserts the first one.
func (r *addressRepository) Save(ctx context.Context, address *models.ShippingAddress) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := `
		UPDATE shipping_addresses
		SET recipient_name = $1, recipient_email = $2, recipient_phone = $3, address = $4, postal_code = $5, updated_at = NOW()
		WHERE id = (SELECT id FROM shipping_addresses WHERE user_id = $6 ORDER BY id DESC LIMIT 1)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, update, address.RecipientName, address.RecipientEmail, address.RecipientPhone, address.Address, address.PostalCode, address.UserID).
		Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err == nil {
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to update shipping address: %w", err)
	}

	insert := `
		INSERT INTO shipping_addresses (user_id, recipient_name, recipient_email, recipient_phone, address, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, insert, address.UserID, address.RecipientName, address.RecipientEmail, address.RecipientPhone, address.Address, address.PostalCode).
		Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shipping address: %w", err)
	}

	return nil
}
