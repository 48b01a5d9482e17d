package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error
	ListByOrder(ctx context.Context, orderID int64) ([]models.Notification, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (order_id, type, recipient, subject, content, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, notification.OrderID, notification.Type, notification.Recipient, notification.Subject, notification.Content, notification.Status, notification.Error).
		Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// UpdateNotificationStatus stamps sent_at when the status becomes sent.
func (r *notificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications
		SET status = $1, error = $2, updated_at = NOW(),
		sent_at = CASE WHEN $1 = 'sent' THEN NOW() ELSE sent_at END
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update the notification status: %w", err)
	}

	return rowsAffected(result)
}

func (r *notificationRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.Notification, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, order_id, type, recipient, subject, content, status, error, created_at, updated_at, sent_at
		FROM notifications
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}

	for rows.Next() {
		var (
			n      models.Notification
			sentAt sql.NullTime
			order  sql.NullInt64
		)

		if err := rows.Scan(&n.ID, &order, &n.Type, &n.Recipient, &n.Subject, &n.Content, &n.Status, &n.Error, &n.CreatedAt, &n.UpdatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if order.Valid {
			n.OrderID = &order.Int64
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
