package storage

import (
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-memory DocumentStore, used in tests
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data

	return key, nil
}

func (m *MemoryStore) SignedURL(_ context.Context, key string) (string, error) {
	return "memory://" + key, nil
}

// Get returns the stored object, used by tests for assertions
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
