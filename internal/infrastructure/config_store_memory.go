package infrastructure

import (
	"encoding/json"
	"sync"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// MemoryConfigStore is a non-durable domain.ConfigStore. It backs tests and
// is the fallback when the settings database cannot be opened.
type MemoryConfigStore struct {
	mu     sync.RWMutex
	values map[string]map[string]json.RawMessage
	saves  map[string]int

	// SaveErr, when set, is returned from every Save
	SaveErr error
}

// NewMemoryConfigStore creates an empty store
func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{
		values: make(map[string]map[string]json.RawMessage),
		saves:  make(map[string]int),
	}
}

// Get returns the value for namespace/key
func (m *MemoryConfigStore) Get(namespace, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.values[namespace][key]; ok {
		return append(json.RawMessage(nil), v...), nil
	}
	return nil, domain.ErrKeyNotFound
}

// Set stores the value
func (m *MemoryConfigStore) Set(namespace, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.values[namespace]
	if !ok {
		ns = make(map[string]json.RawMessage)
		m.values[namespace] = ns
	}
	ns[key] = append(json.RawMessage(nil), value...)
	return nil
}

// Save counts the call and returns SaveErr
func (m *MemoryConfigStore) Save(namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saves[namespace]++
	return nil
}

// SaveCount returns how many successful saves a namespace has seen
func (m *MemoryConfigStore) SaveCount(namespace string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves[namespace]
}

// Close is a no-op
func (m *MemoryConfigStore) Close() error {
	return nil
}
