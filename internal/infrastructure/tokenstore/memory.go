package tokenstore

import (
	"context"
	"sync"
)

type MemoryTokenStore struct {
	mu     sync.RWMutex
	origin string
	db     map[string]string
}

// NewMemoryTokenStore хранилище токена в памяти. db - токены по origin, может быть nil.
func NewMemoryTokenStore(origin string, db map[string]string) *MemoryTokenStore {
	if db == nil {
		db = make(map[string]string)
	}
	return &MemoryTokenStore{
		origin: origin,
		db:     db,
	}
}

func (m *MemoryTokenStore) Get(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db[m.origin], nil
}

func (m *MemoryTokenStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db[m.origin] = token
	return nil
}

func (m *MemoryTokenStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.db, m.origin)
	return nil
}

func (m *MemoryTokenStore) Close(_ context.Context) error {
	return nil
}
