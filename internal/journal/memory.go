package journal

import (
	"context"
	"sync"
)

// Memory keeps entries in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory { return &Memory{} }

// Driver identifies the backend.
func (m *Memory) Driver() Driver { return DriverMemory }

// Append records an entry.
func (m *Memory) Append(_ context.Context, entry Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

// List returns all entries in append order.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}
