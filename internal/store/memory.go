package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV. The zero value is ready to use.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func memKey(origin, key string) string {
	return origin + "\x00" + key
}

func (m *MemoryKV) Get(_ context.Context, origin, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[memKey(origin, key)]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, origin, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[memKey(origin, key)] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, origin, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memKey(origin, key))
	return nil
}
