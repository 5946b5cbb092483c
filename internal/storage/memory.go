package storage

import (
	"maps"
	"sync"

	"go.uber.org/atomic"
)

// MemoryStore keeps values in a map bounded by a total byte quota. A quota of
// zero or less is unbounded.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	used  int
	quota int
	dirty atomic.Bool
}

func NewMemoryStore(quotaBytes int) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), quota: quotaBytes}
}

func (m *MemoryStore) GetItem(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) SetItem(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := len(key) + len(value)
	used := m.used + size
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = append([]byte(nil), value...)
	m.used = used
	m.dirty.Store(true)
	return nil
}

func (m *MemoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
		m.dirty.Store(true)
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Used is the number of bytes counted against the quota.
func (m *MemoryStore) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

// Snapshot returns a copy of every entry.
func (m *MemoryStore) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// Restore replaces the contents with data, ignoring the quota, and clears
// the dirty flag.
func (m *MemoryStore) Restore(data map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = maps.Clone(data)
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.used = 0
	for k, v := range m.data {
		m.used += len(k) + len(v)
	}
	m.dirty.Store(false)
}

// IsDirty reports whether anything changed since the last Restore or TakeDirty.
func (m *MemoryStore) IsDirty() bool { return m.dirty.Load() }

// TakeDirty clears the dirty flag and reports whether it was set.
func (m *MemoryStore) TakeDirty() bool { return m.dirty.Swap(false) }

func (m *MemoryStore) MarkDirty() { m.dirty.Store(true) }
