package store

import (
	"context"
	"sync"
)

// DefaultHistoryLimit bounds the ingest history when no limit is given.
const DefaultHistoryLimit = 100

// Memory is an in-process Store. Reads return copies so callers cannot
// mutate the stored state.
type Memory struct {
	mu       sync.RWMutex
	snap     *Snapshot
	history  []IngestRecord
	capacity int
}

// NewMemory creates a Memory store keeping at most historyLimit ingest records.
func NewMemory(historyLimit int) *Memory {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Memory{
		history:  make([]IngestRecord, 0, historyLimit),
		capacity: historyLimit,
	}
}

func (m *Memory) Load(ctx context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return Snapshot{}, ErrEmpty
	}
	return m.snap.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, snap Snapshot) error {
	c := snap.Clone()

	m.mu.Lock()
	m.snap = &c
	m.mu.Unlock()
	return nil
}

func (m *Memory) AppendIngest(ctx context.Context, rec IngestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) >= m.capacity {
		// Drop the oldest record
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, rec)
	return nil
}

func (m *Memory) RecentIngests(ctx context.Context, limit int) ([]IngestRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]IngestRecord, 0, limit)
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}

func (m *Memory) Close() {}
