package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, "noreply@x.com", formatFrom("", "noreply@x.com"))
	assert.Equal(t, "SIM Administration <noreply@x.com>", formatFrom("SIM Administration", "noreply@x.com"))
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("SIM Administration <noreply@x.com>", "jane@x.com", "Verify your email", "Your verification code is 123456.")

	assert.Contains(t, msg, "From: SIM Administration <noreply@x.com>\r\n")
	assert.Contains(t, msg, "To: jane@x.com\r\n")
	assert.Contains(t, msg, "Subject: Verify your email\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain")
	assert.Contains(t, msg, "\r\n\r\nYour verification code is 123456.")
}
