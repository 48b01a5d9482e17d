package repository_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockCartSQL      = regexp.QuoteMeta(`SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`)
	cartItemsSQL     = regexp.QuoteMeta(`FROM cart_items ci JOIN product_variants v ON v.id = ci.product_variant_id`)
	latestAddressSQL = regexp.QuoteMeta(`FROM shipping_addresses WHERE user_id = $1 ORDER BY id DESC LIMIT 1`)
	insertOrderSQL   = regexp.QuoteMeta(`INSERT INTO orders (user_id, shipping_address_id, subtotal, shipping_charge, total_amount, status)`)
	insertPaymentSQL = regexp.QuoteMeta(`INSERT INTO payments (order_id, amount, status)`)
	insertItemSQL    = regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_variant_id, quantity, price_at_purchase)`)
	decrementSQL     = regexp.QuoteMeta(`UPDATE product_variants SET stock_quantity = stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $1`)
	clearCartSQL     = regexp.QuoteMeta(`DELETE FROM cart_items WHERE cart_id = $1`)

	cartItemColumns = []string{"id", "cart_id", "product_variant_id", "product_id", "name", "size", "color", "unit_price", "quantity"}
	addressColumns  = []string{"id", "user_id", "recipient_name", "recipient_email", "recipient_phone", "address", "postal_code", "created_at", "updated_at"}
)

// expectCheckoutReads queues the lock, the two cart lines (V1 500 x 2 and
// V2 300 x 1) and the shipping address.
func expectCheckoutReads(mock sqlmock.Sqlmock, userID uuid.UUID, now time.Time) {
	mock.ExpectBegin()
	mock.ExpectQuery(lockCartSQL).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(cartItemsSQL).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cartItemColumns).
			AddRow(int64(1), int64(7), int64(11), int64(100), "Linen Kurta", "M", "Beige", "500.00", 2).
			AddRow(int64(2), int64(7), int64(12), int64(101), "Cotton Cap", "S", "Navy", "300.00", 1))
	mock.ExpectQuery(latestAddressSQL).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(addressColumns).
			AddRow(int64(3), userID.String(), "Ayesha Khan", "ayesha@example.com", "0300-1234567", "12 Mall Road, Lahore", 54000, now, now))
}

func expectOrderWrites(mock sqlmock.Sqlmock, userID uuid.UUID, now time.Time) {
	mock.ExpectQuery(insertOrderSQL).
		WithArgs(userID, int64(3), decimal.NewFromInt(1300), decimal.NewFromInt(10), decimal.NewFromInt(1310), models.OrderStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(55), now, now))
	mock.ExpectQuery(insertPaymentSQL).
		WithArgs(int64(55), decimal.NewFromInt(1310), models.PaymentStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(90), now, now))
	mock.ExpectQuery(insertItemSQL).
		WithArgs(int64(55), int64(11), 2, decimal.NewFromInt(500)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(301)))
	mock.ExpectQuery(insertItemSQL).
		WithArgs(int64(55), int64(12), 1, decimal.NewFromInt(300)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(302)))
}

func TestOrderRepository_PlaceOrder(t *testing.T) {
	shipping := decimal.NewFromInt(10)

	t.Run("Success - Checkout Scenario", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()
		now := time.Now()

		expectCheckoutReads(mock, userID, now)
		expectOrderWrites(mock, userID, now)
		// stock 10 -> 8 for V1 and 5 -> 4 for V2
		mock.ExpectExec(decrementSQL).WithArgs(2, int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(decrementSQL).WithArgs(1, int64(12)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(clearCartSQL).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		// Act
		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		// Assert
		require.NoError(t, err)
		order := placed.Order
		assert.Equal(t, int64(55), order.ID)
		assert.Equal(t, "1300.00", order.Subtotal.StringFixed(2))
		assert.Equal(t, "1310.00", order.TotalAmount.StringFixed(2))
		assert.Equal(t, models.OrderStatusPending, order.Status)
		require.Len(t, order.Items, 2)
		assert.Equal(t, "500.00", order.Items[0].PriceAtPurchase.StringFixed(2))
		assert.Equal(t, "300.00", order.Items[1].PriceAtPurchase.StringFixed(2))
		require.NotNil(t, order.Payment)
		assert.Equal(t, models.PaymentStatusPending, order.Payment.Status)
		assert.True(t, order.Payment.Amount.Equal(order.TotalAmount))
		assert.Equal(t, "ayesha@example.com", placed.ShippingAddress.RecipientEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Decrements Run In Variant Id Order", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(lockCartSQL).WithArgs(userID.String()).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectQuery(cartItemsSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cartItemColumns).
				AddRow(int64(1), int64(7), int64(20), int64(100), "Scarf", "M", "Red", "100.00", 1).
				AddRow(int64(2), int64(7), int64(5), int64(101), "Belt", "M", "Black", "50.00", 3))
		mock.ExpectQuery(latestAddressSQL).WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(addressColumns).AddRow(int64(3), userID.String(), "A", "a@example.com", "1", "Street", 1, now, now))
		mock.ExpectQuery(insertOrderSQL).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(56), now, now))
		mock.ExpectQuery(insertPaymentSQL).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(91), now, now))
		mock.ExpectQuery(insertItemSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(401)))
		mock.ExpectQuery(insertItemSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(402)))
		mock.ExpectExec(decrementSQL).WithArgs(3, int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(decrementSQL).WithArgs(1, int64(20)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(clearCartSQL).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		// Act
		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "260.00", placed.Order.TotalAmount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Repeated Variant Decrements Once With Summed Quantity", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(lockCartSQL).WithArgs(userID.String()).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectQuery(cartItemsSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cartItemColumns).
				AddRow(int64(1), int64(7), int64(20), int64(100), "Scarf", "M", "Red", "100.00", 1).
				AddRow(int64(2), int64(7), int64(20), int64(100), "Scarf", "M", "Red", "100.00", 3))
		mock.ExpectQuery(latestAddressSQL).WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(addressColumns).AddRow(int64(3), userID.String(), "A", "a@example.com", "1", "Street", 1, now, now))
		mock.ExpectQuery(insertOrderSQL).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(57), now, now))
		mock.ExpectQuery(insertPaymentSQL).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(92), now, now))
		mock.ExpectQuery(insertItemSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(501)))
		mock.ExpectQuery(insertItemSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(502)))
		mock.ExpectExec(decrementSQL).WithArgs(4, int64(20)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(clearCartSQL).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		// Act
		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "410.00", placed.Order.TotalAmount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(lockCartSQL).WithArgs(userID).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		assert.Nil(t, placed)
		assert.ErrorIs(t, err, repository.ErrEmptyCart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Second Confirmation Finds Empty Cart", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(lockCartSQL).WithArgs(userID.String()).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectQuery(cartItemsSQL).WithArgs(int64(7)).WillReturnRows(sqlmock.NewRows(cartItemColumns))
		mock.ExpectRollback()

		// Act
		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		// Assert
		assert.Nil(t, placed)
		assert.ErrorIs(t, err, repository.ErrEmptyCart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Missing Shipping Address", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(lockCartSQL).WithArgs(userID.String()).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectQuery(cartItemsSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cartItemColumns).AddRow(int64(1), int64(7), int64(11), int64(100), "Linen Kurta", "M", "Beige", "500.00", 2))
		mock.ExpectQuery(latestAddressSQL).WithArgs(userID).WillReturnRows(sqlmock.NewRows(addressColumns))
		mock.ExpectRollback()

		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		assert.Nil(t, placed)
		assert.ErrorIs(t, err, repository.ErrMissingShippingAddress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Insufficient Stock Rolls Back And Keeps Cart", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()
		now := time.Now()

		expectCheckoutReads(mock, userID, now)
		expectOrderWrites(mock, userID, now)
		mock.ExpectExec(decrementSQL).WithArgs(2, int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(decrementSQL).WithArgs(1, int64(12)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		// Act
		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		// Assert
		assert.Nil(t, placed)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet(), "cart must not be cleared and nothing committed")
	})

	t.Run("Failure - Check Constraint Violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)
		userID := uuid.New()
		now := time.Now()

		expectCheckoutReads(mock, userID, now)
		expectOrderWrites(mock, userID, now)
		mock.ExpectExec(decrementSQL).WithArgs(2, int64(11)).WillReturnError(&pq.Error{Code: "23514"})
		mock.ExpectRollback()

		placed, err := repo.PlaceOrder(t.Context(), userID, shipping)

		assert.Nil(t, placed)
		assert.True(t, repository.IsIntegrityViolation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Begin Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err := repo.PlaceOrder(t.Context(), uuid.New(), shipping)

		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}

var orderRowColumns = []string{"id", "user_id", "shipping_address_id", "subtotal", "shipping_charge", "total_amount", "status", "created_at", "updated_at",
	"payment_id", "amount", "payment_status", "payment_created_at", "payment_updated_at"}

var orderItemColumns = []string{"id", "order_id", "product_variant_id", "name", "quantity", "price_at_purchase"}

func TestOrderRepository_GetOrderByID(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	t.Run("Success - With Items And Payment", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.id = $1 AND o.user_id = $2`)).
			WithArgs(int64(55), userID).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(int64(55), userID.String(), int64(3), "1300.00", "10.00", "1310.00", "PENDING", now, now, int64(90), "1310.00", "PENDING", now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE oi.order_id = ANY($1)`)).
			WithArgs(pq.Array([]int64{55})).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(int64(301), int64(55), int64(11), "Linen Kurta", 2, "500.00").
				AddRow(int64(302), int64(55), int64(12), "Cotton Cap", 1, "300.00"))

		// Act
		order, err := repo.GetOrderByID(t.Context(), userID, 55)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "1310.00", order.TotalAmount.StringFixed(2))
		require.Len(t, order.Items, 2)
		require.NotNil(t, order.Payment)
		assert.Equal(t, int64(90), order.Payment.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Someone Elses Order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.id = $1 AND o.user_id = $2`)).
			WithArgs(int64(55), userID).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		order, err := repo.GetOrderByID(t.Context(), userID, 55)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderRepository_ListOrdersByUser(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE user_id = $1`)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY o.created_at DESC, o.id DESC LIMIT $2 OFFSET $3`)).
			WithArgs(userID, 10, 10).
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow(int64(2), userID.String(), int64(3), "100.00", "10.00", "110.00", "PENDING", now, now, nil, nil, nil, nil, nil))
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE oi.order_id = ANY($1)`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).AddRow(int64(7), int64(2), int64(11), "Linen Kurta", 1, "100.00"))

		orders, total, err := repo.ListOrdersByUser(t.Context(), userID, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 11, total)
		require.Len(t, orders, 1)
		assert.Nil(t, orders[0].Payment)
		assert.Len(t, orders[0].Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No Orders Skips Items Query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewOrderRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE user_id = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders o LEFT JOIN payments pay`)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		orders, total, err := repo.ListOrdersByUser(t.Context(), userID, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
