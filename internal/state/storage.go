package state

import (
	"context"
	"time"

	"github.com/futig/resume-assistant/internal/entity"
	"github.com/patrickmn/go-cache"
)

// Storage defines the interface for workflow session storage
type Storage interface {
	// Get retrieves the workflow of a session; ok is false when the session is unknown or expired
	Get(ctx context.Context, sessionID string) (*entity.Workflow, bool)

	// Set saves the workflow of a session and refreshes its expiration
	Set(ctx context.Context, sessionID string, workflow *entity.Workflow)

	// Delete removes a session
	Delete(ctx context.Context, sessionID string)
}

// MemoryStorage keeps sessions in process memory and forgets them after ttl of inactivity
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *MemoryStorage) Get(_ context.Context, sessionID string) (*entity.Workflow, bool) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	workflow, ok := v.(*entity.Workflow)
	return workflow, ok
}

func (s *MemoryStorage) Set(_ context.Context, sessionID string, workflow *entity.Workflow) {
	s.cache.Set(sessionID, workflow, cache.DefaultExpiration)
}

func (s *MemoryStorage) Delete(_ context.Context, sessionID string) {
	s.cache.Delete(sessionID)
}

// Count returns the number of live sessions
func (s *MemoryStorage) Count() int {
	return s.cache.ItemCount()
}
