package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/chachabrian/tvdefleet-backend/internal/models"
)

// telegram rejects messages longer than 4096 characters
const telegramMessageLimit = 4000

// TelegramNotifier mirrors inbox notifications to the operators' Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// InitTelegram returns nil when no bot token is configured
func InitTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Telegram alerts will be disabled.")
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error initializing telegram bot: %w", err)
	}

	log.Printf("Telegram alerts authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// FormatTelegramMessages renders notifications as HTML messages, splitting
// them so that no message exceeds Telegram's size limit.
func FormatTelegramMessages(notifications []models.AppNotification) []string {
	var out []string
	var b strings.Builder
	for _, n := range notifications {
		entry := fmt.Sprintf("<b>%s</b>\n%s\n\n", html.EscapeString(n.Title), html.EscapeString(n.Message))
		if b.Len() > 0 && b.Len()+len(entry) > telegramMessageLimit {
			out = append(out, strings.TrimSpace(b.String()))
			b.Reset()
		}
		b.WriteString(entry)
	}
	if b.Len() > 0 {
		out = append(out, strings.TrimSpace(b.String()))
	}
	return out
}

// Deliver implements Sink
func (t *TelegramNotifier) Deliver(_ context.Context, notifications []models.AppNotification) error {
	for _, text := range FormatTelegramMessages(notifications) {
		msg := tgbotapi.NewMessage(t.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("error sending telegram message: %w", err)
		}
	}
	return nil
}
