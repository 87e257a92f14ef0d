package mailer

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPConfig_Enabled(t *testing.T) {
	assert.False(t, SMTPConfig{}.Enabled())
	assert.False(t, SMTPConfig{User: "shop@example.com"}.Enabled())
	assert.False(t, SMTPConfig{Password: "secret"}.Enabled())
	assert.True(t, SMTPConfig{User: "shop@example.com", Password: "secret"}.Enabled())
}

func TestComposeMIME(t *testing.T) {
	msg := &Message{
		From:    "shop@example.com",
		To:      "admin@example.com",
		Subject: OrderSubject,
		HTML:    "<p>" + strings.Repeat("Заказ ", 40) + "</p>",
		Text:    "Заказ",
	}
	date := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	raw, err := composeMIME(msg, date)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "shop@example.com", parsed.Header.Get("From"))
	assert.Equal(t, "admin@example.com", parsed.Header.Get("To"))
	assert.Equal(t, "1.0", parsed.Header.Get("MIME-Version"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, OrderSubject, subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	var types, bodies []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))

		encoded, err := io.ReadAll(part)
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
			assert.LessOrEqual(t, len(line), 76)
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
		require.NoError(t, err)
		bodies = append(bodies, string(decoded))
	}

	assert.Equal(t, []string{"text/plain; charset=utf-8", "text/html; charset=utf-8"}, types)
	assert.Equal(t, []string{msg.Text, msg.HTML}, bodies)
}

func TestComposeMIME_HTMLOnly(t *testing.T) {
	raw, err := composeMIME(&Message{From: "a@example.com", To: "b@example.com", Subject: "s", HTML: "<p>x</p>"}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "text/plain")
	assert.Contains(t, string(raw), "text/html; charset=utf-8")
}
