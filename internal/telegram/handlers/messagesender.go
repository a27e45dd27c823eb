package handlers

import (
	"context"

	"github.com/avast/retry-go/v4"
	pkgRetry "github.com/futig/resume-assistant/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MessageSender sends chat replies, retrying transient Bot API failures
type MessageSender struct {
	sender Sender
	retry  pkgRetry.RetryConfig
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(sender Sender, retryCfg pkgRetry.RetryConfig) *MessageSender {
	return &MessageSender{
		sender: sender,
		retry:  retryCfg,
	}
}

// Send sends text to the chat; markup may be nil
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	opts := append(s.retry.ToRetryOptions(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "failed to send message, retrying",
				zap.Error(err),
				zap.Uint("attempt", n+1),
				zap.Int64("chat_id", chatID),
			)
		}),
	)

	err := retry.Do(func() error {
		_, err := s.sender.Send(msg)
		return err
	}, opts...)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}
