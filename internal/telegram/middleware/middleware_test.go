package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.texts = append(s.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func update(chatID int64) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: "hello",
		},
	}
}

func TestRateLimiter(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(60, 2, "slow down", sender, zap.NewNop())

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }

	rl.Handle(update(1), next)
	rl.Handle(update(1), next)
	rl.Handle(update(1), next)
	rl.Handle(update(1), next)

	assert.Equal(t, 2, handled, "burst is exhausted")
	assert.Equal(t, []string{"slow down"}, sender.texts, "one warning per interval")

	// other chats have their own bucket
	rl.Handle(update(2), next)
	assert.Equal(t, 3, handled)

	// one token per second at 60/min
	now = now.Add(time.Second)
	rl.Handle(update(1), next)
	assert.Equal(t, 4, handled)
}

func TestRecovery(t *testing.T) {
	sender := &recordingSender{}
	mw := NewRecoveryMiddleware(zap.NewNop(), sender, "Something went wrong. Try again.")

	assert.NotPanics(t, func() {
		mw.Handle(update(7), func(tgbotapi.Update) { panic("boom") })
	})
	assert.Equal(t, []string{"Something went wrong. Try again."}, sender.texts)
}

func TestLoggingPassesThrough(t *testing.T) {
	mw := NewLoggingMiddleware(zap.NewNop())

	called := false
	mw.Handle(update(7), func(tgbotapi.Update) { called = true })

	assert.True(t, called)
	assert.Equal(t, "text", updateType(update(7)))
	assert.Equal(t, "other", updateType(tgbotapi.Update{}))
}
