package datafile

import (
	"context"
	"path"
	"sync"
)

// Memory is an in-memory prober for tests. Files are registered with Add
// under the same dir/name coordinates Exists is asked about.
type Memory struct {
	mu    sync.RWMutex
	files map[string]struct{}
}

// NewMemory returns an empty in-memory prober.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]struct{})}
}

// Driver identifies the backend.
func (m *Memory) Driver() Driver { return DriverMemory }

// Add registers a file as present.
func (m *Memory) Add(dir, name string) {
	m.mu.Lock()
	m.files[path.Join(dir, name)] = struct{}{}
	m.mu.Unlock()
}

// Exists reports whether the file was registered.
func (m *Memory) Exists(_ context.Context, dir, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path.Join(dir, name)]
	return ok, nil
}
