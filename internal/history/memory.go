package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"simple-bible/internal/observe"
	"simple-bible/internal/state"
)

var _ state.HistoryLog = (*MemoryLog)(nil)

// MemoryLog is an in-memory state.HistoryLog for tests.
type MemoryLog struct {
	mu      sync.Mutex
	records []state.HistoryRecord
	feed    *observe.Broadcaster[[]state.HistoryRecord]
}

// NewMemoryLog returns an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{feed: observe.New[[]state.HistoryRecord]()}
}

func (m *MemoryLog) snapshot() []state.HistoryRecord {
	out := make([]state.HistoryRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Insert implements state.HistoryLog.
func (m *MemoryLog) Insert(_ context.Context, selection state.Selection) (state.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := state.HistoryRecord{
		ID:        uuid.New().String(),
		Seq:       int64(len(m.records) + 1),
		Selection: selection,
		CreatedAt: time.Now().UTC(),
	}
	m.records = append(m.records, rec)
	m.feed.Publish(m.snapshot())
	return rec, nil
}

// Watch implements state.HistoryLog.
func (m *MemoryLog) Watch(ctx context.Context) (<-chan []state.HistoryRecord, error) {
	m.mu.Lock()
	ch, cancel := m.feed.SubscribeWith(m.snapshot())
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, nil
}

// Records returns a copy of the log.
func (m *MemoryLog) Records() []state.HistoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}
