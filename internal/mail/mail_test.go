package mail

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := Message{
		To:      "alice@example.com",
		Subject: "Password reset",
		Body:    "Click the link to reset your password.",
	}

	raw := string(BuildMessage("LiteNotes <no-reply@litenotes.local>", msg))

	assert.Contains(t, raw, "From: LiteNotes <no-reply@litenotes.local>\r\n")
	assert.Contains(t, raw, "To: alice@example.com\r\n")
	assert.Contains(t, raw, "Subject: Password reset\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=utf-8\r\n")

	// Headers and body separated by an empty line.
	parts := strings.SplitN(raw, "\r\n\r\n", 2)
	assert.Len(t, parts, 2)
	assert.Equal(t, msg.Body, parts[1])
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "no-reply@litenotes.local", envelopeAddress("LiteNotes <no-reply@litenotes.local>"))
	assert.Equal(t, "no-reply@litenotes.local", envelopeAddress("no-reply@litenotes.local"))
}

func TestLogSender(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := NewLogSender(logger)

	err := sender.Send(context.Background(), Message{To: "alice@example.com"})
	assert.NoError(t, err)
}
