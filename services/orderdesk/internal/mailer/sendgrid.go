package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendClient is the subset of *sendgrid.Client the mailer uses.
type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client   sendClient
	fromName string
}

var _ Mailer = (*SendGridMailer)(nil)

// NewSendGridMailer creates a SendGrid mailer authenticated with apiKey.
func NewSendGridMailer(apiKey, fromName string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), fromName: fromName}
}

// Transport implements Mailer.
func (m *SendGridMailer) Transport() string { return TransportSendGrid }

// Send delivers msg. Any 4xx/5xx answer from SendGrid is an error.
func (m *SendGridMailer) Send(ctx context.Context, msg *Message) error {
	from := mail.NewEmail(m.fromName, msg.From)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
