package store

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// Memory keeps documents in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, origin, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[origin+"\x00"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (m *Memory) Set(_ context.Context, origin, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[origin+"\x00"+key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
