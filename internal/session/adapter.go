// internal/session/adapter.go
//
// Storage adapter contract plus the in-memory implementation.

package session

import (
	"context"
	"maps"
	"sync"
)

// Adapter persists per-session key-value tuples.  Implementations must make
// Set replace the entire tuple for sid in one step, and Clear must be
// idempotent.  Get returns an empty map, not an error, for an unknown sid.
type Adapter interface {
	Get(ctx context.Context, sid string) (map[string]string, error)
	Set(ctx context.Context, sid string, values map[string]string) error
	Clear(ctx context.Context, sid string) error
}

// MemoryAdapter keeps sessions in a process-local map.  State is lost on
// restart; intended for development and tests.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryAdapter returns an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string]map[string]string)}
}

func (m *MemoryAdapter) Get(_ context.Context, sid string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.data[sid]
	if !ok {
		return map[string]string{}, nil
	}
	return maps.Clone(vals), nil
}

func (m *MemoryAdapter) Set(_ context.Context, sid string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid] = maps.Clone(values)
	return nil
}

func (m *MemoryAdapter) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}
