package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local KeyValueStore. It backs the "memory" driver
// and every service test.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, observe("get", start, ErrClosed)
	}
	v, ok := m.data[key]
	return v, ok, observe("get", start, nil)
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return observe("set", start, ErrClosed)
	}
	m.data[key] = value
	return observe("set", start, nil)
}

func (m *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) error {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return observe("update", start, ErrClosed)
	}
	cur, ok := m.data[key]
	next, err := fn(cur, ok)
	if err != nil {
		return observe("update", start, abortError{err})
	}
	m.data[key] = next
	return observe("update", start, nil)
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
