package storage

import (
	"context"
	"sync"
)

// MemoryBackend is the volatile store. Values live only as long as the
// process and are dropped per scope with Forget.
type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string][]byte
}

// NewMemoryBackend returns an empty volatile backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string][]byte)}
}

func (m *MemoryBackend) Load(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scopes[scope][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Save(_ context.Context, scope, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scopes[scope]
	if !ok {
		s = make(map[string][]byte)
		m.scopes[scope] = s
	}
	s[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scopes[scope], key)
	if len(m.scopes[scope]) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

// Forget drops everything stored for scope, as closing a tab would.
func (m *MemoryBackend) Forget(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scopes, scope)
}
