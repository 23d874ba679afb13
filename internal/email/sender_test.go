package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/craftelio/storefront/internal/config"
)

func TestNewSenderFallsBackToLog(t *testing.T) {
	sender, err := NewSender(config.EmailConfig{From: "noreply@craftelio.com"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, sender)
}

func TestNewSenderUsesSMTP(t *testing.T) {
	sender, err := NewSender(config.EmailConfig{
		From:     "noreply@craftelio.com",
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, sender)
}

func TestNewSMTPSenderRequiresFrom(t *testing.T) {
	_, err := NewSMTPSender(config.EmailConfig{Host: "smtp.example.com", Port: 587})
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("noreply@craftelio.com", "buyer@example.com", "Welcome", "<p>hi</p>")
	require.NoError(t, err)
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "buyer@example.com")

	_, err = buildMessage("noreply@craftelio.com", "not an address", "Welcome", "<p>hi</p>")
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewLogSender(zap.New(core))

	require.NoError(t, sender.Send(context.Background(), "buyer@example.com", "Welcome", "<p>hi</p>"))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "buyer@example.com", entries[0].ContextMap()["to"])
	assert.Equal(t, "Welcome", entries[0].ContextMap()["subject"])
}
