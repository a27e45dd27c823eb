package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LoggingMiddleware logs all incoming updates
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Handle logs the update before and after next runs
func (m *LoggingMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	start := time.Now()

	var chatID int64
	if update.Message != nil {
		chatID = update.Message.Chat.ID
	}

	m.logger.Info("telegram update received",
		zap.Int64("chat_id", chatID),
		zap.String("type", updateType(update)),
		zap.Int("update_id", update.UpdateID),
	)

	next(update)

	m.logger.Info("telegram update processed",
		zap.Int64("chat_id", chatID),
		zap.Int("update_id", update.UpdateID),
		zap.Duration("duration", time.Since(start)),
	)
}

func updateType(update tgbotapi.Update) string {
	msg := update.Message
	switch {
	case msg == nil:
		return "other"
	case msg.Document != nil:
		return "document"
	case msg.IsCommand():
		return "command"
	case msg.Text != "":
		return "text"
	default:
		return "other"
	}
}
