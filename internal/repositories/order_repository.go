package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingCharge decimal.Decimal) (*models.PlacedOrder, error)
	GetOrderByID(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	CountOrders(ctx context.Context) (int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// PlaceOrder turns the user's cart into an order in one transaction. The
// cart row is locked first, so a second confirmation waits and then finds
// the cart empty. Nothing is written unless every step succeeds.
//
// The caller's context bounds the whole transaction.
func (r *orderRepository) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingCharge decimal.Decimal) (*models.PlacedOrder, error) {

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	items, err := listCartItems(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := latestAddress(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrMissingShippingAddress
		}
		return nil, err
	}

	totals := models.ComputeTotals(items)

	order := &models.Order{
		UserID:            userID,
		ShippingAddressID: address.ID,
		Subtotal:          totals.Subtotal,
		ShippingCharge:    shippingCharge,
		TotalAmount:       totals.Subtotal.Add(shippingCharge),
		Status:            models.OrderStatusPending,
	}

	insertOrder := `
		INSERT INTO orders (user_id, shipping_address_id, subtotal, shipping_charge, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, insertOrder, order.UserID, order.ShippingAddressID, order.Subtotal, order.ShippingCharge, order.TotalAmount, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	payment := &models.Payment{OrderID: order.ID, Amount: order.TotalAmount, Status: models.PaymentStatusPending}

	insertPayment := `
		INSERT INTO payments (order_id, amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, insertPayment, payment.OrderID, payment.Amount, payment.Status).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	order.Payment = payment

	insertItem := `
		INSERT INTO order_items (order_id, product_variant_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	order.Items = make([]models.OrderItem, 0, len(items))
	required := make(map[int64]int, len(items))

	for _, item := range items {
		orderItem := models.OrderItem{
			OrderID:          order.ID,
			ProductVariantID: item.ProductVariantID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			PriceAtPurchase:  item.UnitPrice,
		}

		if err := tx.QueryRowContext(ctx, insertItem, orderItem.OrderID, orderItem.ProductVariantID, orderItem.Quantity, orderItem.PriceAtPurchase).Scan(&orderItem.ID); err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}

		order.Items = append(order.Items, orderItem)
		required[item.ProductVariantID] += item.Quantity
	}

	// Variants are decremented in id order so concurrent placements lock
	// rows in the same sequence.
	variantIDs := make([]int64, 0, len(required))
	for id := range required {
		variantIDs = append(variantIDs, id)
	}
	slices.Sort(variantIDs)

	decrement := `
		UPDATE product_variants
		SET stock_quantity = stock_quantity - $1
		WHERE id = $2 AND stock_quantity >= $1
	`

	for _, id := range variantIDs {
		result, err := tx.ExecContext(ctx, decrement, required[id], id)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		if err := rowsAffected(result); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("variant %d: %w", id, ErrInsufficientStock)
			}
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return &models.PlacedOrder{Order: order, ShippingAddress: address}, nil
}

const orderColumns = `
		SELECT o.id, o.user_id, o.shipping_address_id, o.subtotal, o.shipping_charge, o.total_amount, o.status, o.created_at, o.updated_at,
		pay.id, pay.amount, pay.status, pay.created_at, pay.updated_at
		FROM orders o
		LEFT JOIN payments pay ON pay.order_id = o.id`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {

	order := &models.Order{}

	var (
		paymentID        sql.NullInt64
		paymentAmount    decimal.NullDecimal
		paymentStatus    sql.NullString
		paymentCreatedAt sql.NullTime
		paymentUpdatedAt sql.NullTime
	)

	err := row.Scan(&order.ID, &order.UserID, &order.ShippingAddressID, &order.Subtotal, &order.ShippingCharge, &order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		&paymentID, &paymentAmount, &paymentStatus, &paymentCreatedAt, &paymentUpdatedAt)
	if err != nil {
		return nil, err
	}

	if paymentID.Valid {
		order.Payment = &models.Payment{
			ID:        paymentID.Int64,
			OrderID:   order.ID,
			Amount:    paymentAmount.Decimal,
			Status:    models.PaymentStatus(paymentStatus.String),
			CreatedAt: paymentCreatedAt.Time,
			UpdatedAt: paymentUpdatedAt.Time,
		}
	}

	return order, nil
}

// GetOrderByID only returns orders owned by userID; anything else is
// ErrNotFound.
func (r *orderRepository) GetOrderByID(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, orderColumns+` WHERE o.id = $1 AND o.user_id = $2`, orderID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.listItems(dbCtx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := orderColumns + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int64{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.listItems(dbCtx, ids)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, total, nil
}

func (r *orderRepository) listItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {

	query := `
		SELECT oi.id, oi.order_id, oi.product_variant_id, p.name, oi.quantity, oi.price_at_purchase
		FROM order_items oi
		JOIN product_variants v ON v.id = oi.product_variant_id
		JOIN products p ON p.id = v.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]models.OrderItem, len(orderIDs))

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductVariantID, &item.ProductName, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	return items, rows.Err()
}

func (r *orderRepository) CountOrders(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM orders`)
}
