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

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	AddItem(ctx context.Context, cartID, variantID int64, quantity int) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetOrCreateCart relies on UNIQUE(user_id): when a concurrent request wins
// the insert, the existing row is read back instead.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	insert := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, insert, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return listCartItems(dbCtx, r.DB, cartID)
}

const cartItemsQuery = `
		SELECT ci.id, ci.cart_id, ci.product_variant_id, v.product_id, p.name, v.size, v.color, v.unit_price, ci.quantity
		FROM cart_items ci
		JOIN product_variants v ON v.id = ci.product_variant_id
		JOIN products p ON p.id = v.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
	`

func listCartItems(ctx context.Context, q querier, cartID int64) ([]models.CartItem, error) {

	rows, err := q.QueryContext(ctx, cartItemsQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductVariantID, &item.ProductID, &item.ProductName, &item.Size, &item.Color, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// AddItem increments the quantity when the variant is already in the cart.
// An unknown variant returns ErrNotFound; an increment past
// models.MaxLineQuantity returns ErrQuantityLimit.
func (r *cartRepository) AddItem(ctx context.Context, cartID, variantID int64, quantity int) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// FOR SHARE serializes with order placement, which locks the cart FOR UPDATE.
	query := `
		WITH c AS (SELECT id FROM carts WHERE id = $1 FOR SHARE)
		INSERT INTO cart_items (cart_id, product_variant_id, quantity)
		SELECT c.id, $2::bigint, $3::integer FROM c
		ON CONFLICT (cart_id, product_variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
		RETURNING id, quantity
	`

	item := &models.CartItem{CartID: cartID, ProductVariantID: variantID}

	err := r.DB.QueryRowContext(dbCtx, query, cartID, variantID, quantity, models.MaxLineQuantity).Scan(&item.ID, &item.Quantity)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuantityLimit
		}
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	if _, err := r.DB.ExecContext(dbCtx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return nil, fmt.Errorf("failed to touch cart: %w", err)
	}

	return item, nil
}

// UpdateItemQuantity deletes the line when quantity drops to zero or below.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) error {

	if quantity <= 0 {
		return r.RemoveItem(ctx, userID, itemID)
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		WITH c AS (SELECT id FROM carts WHERE user_id = $3 FOR SHARE)
		UPDATE cart_items ci
		SET quantity = $1
		FROM c
		WHERE ci.cart_id = c.id AND ci.id = $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return rowsAffected(result)
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		WITH c AS (SELECT id FROM carts WHERE user_id = $2 FOR SHARE)
		DELETE FROM cart_items ci
		USING c
		WHERE ci.cart_id = c.id AND ci.id = $1
	`

	result, err := r.DB.ExecContext(dbCtx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return rowsAffected(result)
}
