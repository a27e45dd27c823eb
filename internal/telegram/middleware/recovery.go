package middleware

import (
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is satisfied by *tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	logger  *zap.Logger
	sender  Sender
	message string
}

// NewRecoveryMiddleware creates a recovery middleware that answers the chat with message
func NewRecoveryMiddleware(logger *zap.Logger, sender Sender, message string) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:  logger,
		sender:  sender,
		message: message,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		m.logger.Error("panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())),
			zap.Int("update_id", update.UpdateID),
		)

		if update.Message == nil {
			return
		}

		chatID := update.Message.Chat.ID
		if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, m.message)); err != nil {
			m.logger.Error("failed to send error message",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
	}()

	next(update)
}
