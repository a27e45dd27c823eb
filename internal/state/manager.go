package state

import (
	"context"
	"sync"

	"github.com/futig/resume-assistant/internal/entity"
)

// Manager serializes access to workflow sessions. Callers always receive copies,
// so a record only changes through Update.
type Manager struct {
	mu      sync.Mutex
	storage Storage
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
	}
}

// Get returns a snapshot of the session; unknown sessions start empty
func (m *Manager) Get(ctx context.Context, sessionID string) *entity.Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.load(ctx, sessionID)
	return &current
}

// Update applies fn to a copy of the session and stores the copy only if fn succeeds
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*entity.Workflow) error) (*entity.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.load(ctx, sessionID)
	if err := fn(&next); err != nil {
		return nil, err
	}

	stored := next
	m.storage.Set(ctx, sessionID, &stored)

	return &next, nil
}

// Delete forgets a session
func (m *Manager) Delete(ctx context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage.Delete(ctx, sessionID)
}

func (m *Manager) load(ctx context.Context, sessionID string) entity.Workflow {
	if stored, ok := m.storage.Get(ctx, sessionID); ok && stored != nil {
		return *stored
	}
	return entity.Workflow{}
}
