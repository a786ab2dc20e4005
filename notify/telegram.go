// Package notify pushes swap status messages to Telegram.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram sends one-way status messages. A nil *Telegram is a no-op so the
// caller can leave notifications unconfigured.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// NewTelegram authenticates the bot token.
func NewTelegram(token string, chatID int64, log zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, log: log}, nil
}

// Send delivers text best-effort; delivery problems are logged, never fatal.
func (t *Telegram) Send(text string) {
	if t == nil {
		return
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.log.Warn().Err(err).Msg("telegram send failed")
	}
}

// ConfirmedMessage formats the per-leg confirmation line with its explorer link.
func ConfirmedMessage(leg int, txID string) string {
	return fmt.Sprintf("leg %d confirmed: https://solscan.io/tx/%s", leg, txID)
}

// AbortedMessage formats the run-failure line.
func AbortedMessage(runID string, err error) string {
	return fmt.Sprintf("swap run %s aborted: %v", runID, err)
}
