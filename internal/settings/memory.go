package settings

import (
	"context"
	"sync"

	"simple-bible/internal/state"
)

var _ state.Preferences = (*MemoryStore)(nil)

// MemoryStore is an in-memory state.Preferences for tests and throwaway sessions.
// SaveErr, when set, is returned by every save.
type MemoryStore struct {
	mu      sync.Mutex
	data    Settings
	saves   int
	SaveErr error
}

// NewMemoryStore returns a store seeded with data.
func NewMemoryStore(data Settings) *MemoryStore {
	return &MemoryStore{data: data}
}

// Snapshot returns a copy of the stored settings.
func (m *MemoryStore) Snapshot() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Saves counts the save calls made so far, failed ones included.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStore) save(fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	fn(&m.data)
	return nil
}

func (m *MemoryStore) SaveTranslation(_ context.Context, translation string) error {
	return m.save(func(d *Settings) { d.Translation = &translation })
}

func (m *MemoryStore) Translation(_ context.Context) (string, error) {
	return value(m.Snapshot().Translation)
}

func (m *MemoryStore) SaveBookIndex(_ context.Context, index int) error {
	return m.save(func(d *Settings) { d.BookIndex = &index })
}

func (m *MemoryStore) BookIndex(_ context.Context) (int, error) {
	return value(m.Snapshot().BookIndex)
}

func (m *MemoryStore) SaveChapter(_ context.Context, chapter int) error {
	return m.save(func(d *Settings) { d.Chapter = &chapter })
}

func (m *MemoryStore) Chapter(_ context.Context) (int, error) {
	return value(m.Snapshot().Chapter)
}

func (m *MemoryStore) SaveZoom(_ context.Context, zoom float64) error {
	return m.save(func(d *Settings) { d.Zoom = &zoom })
}

func (m *MemoryStore) Zoom(_ context.Context) (float64, error) {
	return value(m.Snapshot().Zoom)
}
