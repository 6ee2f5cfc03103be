package repo

import (
	"context"
	"fmt"
	"sync"

	"gobot/internal/domain/game"
	errs "gobot/internal/errors"
)

// MemorySessionStorage is used when no redis is configured. It remembers
// the token and the last answered position of every session until the
// process exits.
type MemorySessionStorage struct {
	mu      sync.Mutex
	token   string
	handled map[int64]string
}

func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{handled: make(map[int64]string)}
}

func (m *MemorySessionStorage) StoreToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemorySessionStorage) Token(context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemorySessionStorage) DropToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *MemorySessionStorage) IsHandled(_ context.Context, sessionID int64, setup string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.handled[sessionID]
	return ok && last == setup, nil
}

// MarkHandled keeps only the newest setup per session: older positions of a
// game never come back.
func (m *MemorySessionStorage) MarkHandled(_ context.Context, sessionID int64, setup, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.handled[sessionID]; ok && last == setup {
		return fmt.Errorf("session %d: %w", sessionID, errs.ErrAlreadyHandled)
	}
	m.handled[sessionID] = setup
	return nil
}

type NoopJournal struct{}

func (NoopJournal) Record(context.Context, game.JournalEntry) error { return nil }
