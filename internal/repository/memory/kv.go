package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

// KV implements repository.KV in process memory. It is the fallback store
// when Redis is unreachable at startup and the store used by tests; state
// does not survive a restart.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKV creates an empty in-memory key-value store.
func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get retrieves the value stored under key.
func (m *KV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, apperrors.NotFound("key", key)
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key.
func (m *KV) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = stored
	return nil
}

// Delete removes key from the store.
func (m *KV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
