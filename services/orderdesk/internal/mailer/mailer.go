// Package mailer renders order notifications and delivers them to the shop
// administrator over SMTP or SendGrid.
package mailer

import "context"

// Transport names reported by Mailer implementations.
const (
	TransportSMTP     = "smtp"
	TransportSendGrid = "sendgrid"
	TransportLog      = "log"
)

// Message is a rendered e-mail ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
	// Transport names the delivery mechanism.
	Transport() string
}
