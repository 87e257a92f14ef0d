package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/logger"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logger.NewWithWriter("orderdesk", "info", &buf))

	require.NoError(t, m.Send(context.Background(), &Message{To: "admin@example.com", Subject: OrderSubject, HTML: "<p>x</p>"}))

	assert.Equal(t, TransportLog, m.Transport())
	assert.Contains(t, buf.String(), "admin@example.com")
	assert.Contains(t, buf.String(), `"html_bytes":8`)
}
