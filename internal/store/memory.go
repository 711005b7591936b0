package store

import (
	"context"
	"sync"
)

// Memory keeps records in process memory. Used for tests and as the fallback
// when no durable backend is configured.
type Memory struct {
	mu     sync.RWMutex
	ready  bool
	byUser map[string][]Record
}

var _ ResponseStore = (*Memory)(nil)

// NewMemory returns an uninitialized in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Init(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byUser == nil {
		m.byUser = make(map[string][]Record)
	}
	m.ready = true
	return nil
}

func (m *Memory) Save(_ context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrStorageUnavailable
	}
	m.byUser[rec.UserID] = append(m.byUser[rec.UserID], rec)
	return nil
}

func (m *Memory) QueryByDate(_ context.Context, userID, date string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, ErrStorageUnavailable
	}
	var out []Record
	for _, r := range m.byUser[userID] {
		if r.SessionDate == date {
			out = append(out, r)
		}
	}
	SortByTimestamp(out)
	return out, nil
}

func (m *Memory) PurgeUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrStorageUnavailable
	}
	delete(m.byUser, userID)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.ready = false
	m.mu.Unlock()
	return nil
}
