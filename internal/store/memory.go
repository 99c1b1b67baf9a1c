package store

import (
	"context"
	"sync"
)

// Memory is an in-process gateway, mostly for tests.
type Memory struct {
	mu   sync.Mutex
	blob []byte
	ok   bool
}

// NewMemory returns an empty memory gateway.
func NewMemory() *Memory {
	return &Memory{}
}

// Close implements Gateway.
func (m *Memory) Close() error { return nil }

// Read returns a copy of the stored blob or ErrNotFound.
func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.blob...), nil
}

// Write stores a copy of blob.
func (m *Memory) Write(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
	m.ok = true
	return nil
}

// Delete drops the stored blob.
func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
	m.ok = false
	return nil
}
