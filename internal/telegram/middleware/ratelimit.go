package middleware

import (
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	bucketIdleTTL   = time.Hour
	bucketCleanup   = 10 * time.Minute
	warningInterval = 30 * time.Second
)

// bucket is the token bucket of one chat
type bucket struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	lastWarningAt time.Time
}

// RateLimiterMiddleware drops updates from chats that exceed their token bucket.
// Buckets of idle chats expire from the cache.
type RateLimiterMiddleware struct {
	buckets    *cache.Cache
	capacity   float64
	refillRate float64 // tokens per second
	warning    string
	sender     Sender
	logger     *zap.Logger
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	warning string,
	sender Sender,
	logger *zap.Logger,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		buckets:    cache.New(bucketIdleTTL, bucketCleanup),
		capacity:   float64(burstSize),
		refillRate: float64(requestsPerMinute) / 60.0,
		warning:    warning,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	if update.Message == nil {
		next(update)
		return
	}

	chatID := update.Message.Chat.ID
	if !rl.allow(chatID) {
		rl.logger.Warn("rate limit exceeded", zap.Int64("chat_id", chatID))
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) allow(chatID int64) bool {
	key := strconv.FormatInt(chatID, 10)
	now := rl.now()

	// Add fails when another update created the bucket first
	_ = rl.buckets.Add(key, &bucket{tokens: rl.capacity, lastRefill: now}, cache.DefaultExpiration)
	item, found := rl.buckets.Get(key)
	if !found {
		return true
	}
	b := item.(*bucket)
	rl.buckets.SetDefault(key, b)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.refillRate
	if b.tokens > rl.capacity {
		b.tokens = rl.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	if now.Sub(b.lastWarningAt) > warningInterval {
		b.lastWarningAt = now
		rl.sendWarning(chatID)
	}
	return false
}

func (rl *RateLimiterMiddleware) sendWarning(chatID int64) {
	if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, rl.warning)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
