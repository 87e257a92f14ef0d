package mailer

import (
	"context"
	"log/slog"
)

// LogMailer records messages in the log instead of delivering them. It is
// used when no mail credentials are configured.
type LogMailer struct {
	logger *slog.Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Transport implements Mailer.
func (m *LogMailer) Transport() string { return TransportLog }

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	m.logger.InfoContext(ctx, "order e-mail not delivered, no mail transport configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
