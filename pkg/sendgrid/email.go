package sendgrid

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
}

// Client sends mail through the SendGrid v3 API.
type Client struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) *Client {
	return &Client{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

// WithBaseURL points the client at another API host, e.g. a local stub.
func (c *Client) WithBaseURL(url string) *Client {
	c.client.Request.BaseURL = url
	return c
}

func (c *Client) Send(ctx context.Context, req *models.EmailNotificationRequest) error {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(c.fromName, c.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", req.To))

	for _, cc := range req.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	for _, bcc := range req.BCC {
		personalization.AddBCCs(mail.NewEmail("", bcc))
	}

	personalization.Subject = req.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", req.Content))
	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	response, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to reach sendgrid: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
