package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, orderID *int64, req *models.EmailNotificationRequest) (*models.Notification, error)
	SendOrderConfirmation(ctx context.Context, placed *models.PlacedOrder) (*models.Notification, error)
	ListOrderNotifications(ctx context.Context, orderID int64) ([]models.Notification, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
}

var ErrEmailDisabled = errors.New("email delivery is not configured")

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, emailService: emailService}
}

// SendEmail records the email as pending, sends it and stores the outcome.
// The returned notification carries the final status even when sending failed.
func (n *notificationService) SendEmail(ctx context.Context, orderID *int64, req *models.EmailNotificationRequest) (*models.Notification, error) {

	if n.emailService == nil {
		return nil, ErrEmailDisabled
	}

	notification := &models.Notification{
		OrderID:   orderID,
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification record: %w", err)
	}

	if err := n.emailService.Send(ctx, req); err != nil {

		notification.Status = models.StatusFailed
		notification.Error = err.Error()

		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, notification.Error)

		return notification, fmt.Errorf("failed to send email: %w", err)
	}

	notification.Status = models.StatusSent

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return notification, fmt.Errorf("notification sent successfully but failed to update notification status: %w", err)
	}

	return notification, nil
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, placed *models.PlacedOrder) (*models.Notification, error) {

	if placed == nil || placed.Order == nil || placed.ShippingAddress == nil {
		return nil, fmt.Errorf("placed order has no recipient")
	}

	orderID := placed.Order.ID

	return n.SendEmail(ctx, &orderID, OrderConfirmationEmail(placed))
}

// OrderConfirmationEmail renders the plain text and HTML bodies sent to the
// shipping recipient.
func OrderConfirmationEmail(placed *models.PlacedOrder) *models.EmailNotificationRequest {

	order := placed.Order
	address := placed.ShippingAddress

	var text, markup strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nThank you for your order #%d.\n\n", address.RecipientName, order.ID)
	fmt.Fprintf(&markup, "<p>Hi %s,</p><p>Thank you for your order #%d.</p><ul>", html.EscapeString(address.RecipientName), order.ID)

	for _, item := range order.Items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("Variant %d", item.ProductVariantID)
		}

		fmt.Fprintf(&text, "- %s x%d @ %s\n", name, item.Quantity, item.PriceAtPurchase.StringFixed(2))
		fmt.Fprintf(&markup, "<li>%s x%d @ %s</li>", html.EscapeString(name), item.Quantity, item.PriceAtPurchase.StringFixed(2))
	}

	fmt.Fprintf(&text, "\nSubtotal: %s\nShipping: %s\nTotal: %s\n\nShipping to: %s, %d\n",
		order.Subtotal.StringFixed(2), order.ShippingCharge.StringFixed(2), order.TotalAmount.StringFixed(2),
		address.Address, address.PostalCode)
	fmt.Fprintf(&markup, "</ul><p>Subtotal: %s<br>Shipping: %s<br><strong>Total: %s</strong></p><p>Shipping to: %s, %d</p>",
		order.Subtotal.StringFixed(2), order.ShippingCharge.StringFixed(2), order.TotalAmount.StringFixed(2),
		html.EscapeString(address.Address), address.PostalCode)

	return &models.EmailNotificationRequest{
		To:          address.RecipientEmail,
		Subject:     fmt.Sprintf("Order #%d confirmed", order.ID),
		Content:     text.String(),
		HTMLContent: markup.String(),
	}
}

func (n *notificationService) ListOrderNotifications(ctx context.Context, orderID int64) ([]models.Notification, error) {

	notifications, err := n.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}
