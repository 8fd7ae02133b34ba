package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactStripsTokens(t *testing.T) {
	msg := `oauth2: cannot fetch token: access_token=ya29.secretvalue expires in 3599`
	out := Redact(msg)

	assert.NotContains(t, out, "ya29.secretvalue")
	assert.Contains(t, out, "[REDACTED]")
}

func TestRedactStripsInviteCodes(t *testing.T) {
	msg := `send failed for https://app.example.com/project/p1?invitecode=abc123&email=x`
	out := Redact(msg)

	assert.NotContains(t, out, "abc123")
	assert.Contains(t, out, "invitecode=[REDACTED]")
}

func TestRedactLeavesPlainMessagesAlone(t *testing.T) {
	msg := "video not found"
	assert.Equal(t, msg, Redact(msg))
}
