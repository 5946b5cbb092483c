package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"adoptwatch/internal/fetch"
	"adoptwatch/internal/models"
	"adoptwatch/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface with plain counters.
type MockMetrics struct {
	mu            sync.Mutex
	WriteFailures map[string]int
	Dropped       map[string]int
	Expired       map[string]int
	Records       map[string]int
	Fallbacks     map[string]int
	CacheHits     int
	CacheMisses   int
	Requests      int
	Persists      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		WriteFailures: map[string]int{},
		Dropped:       map[string]int{},
		Expired:       map[string]int{},
		Records:       map[string]int{},
		Fallbacks:     map[string]int{},
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) SetRecordsTotal(store string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[store] = count
}
func (m *MockMetrics) IncStorageWriteFailures(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteFailures[key]++
}
func (m *MockMetrics) AddDroppedRecords(store string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped[store] += count
}
func (m *MockMetrics) AddExpiredRecords(store string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expired[store] += count
}
func (m *MockMetrics) IncFallback(kind, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fallbacks[kind+"/"+state]++
}

// ErrStorageFull is returned by FailingStore writes.
var ErrStorageFull = errors.New("storage full")

// FailingStore is a key-value store whose reads find nothing and whose
// writes always fail.
type FailingStore struct {
	Writes int
}

func (f *FailingStore) GetItem(_ string) ([]byte, error) { return nil, ErrStorageFull }
func (f *FailingStore) SetItem(_ string, _ []byte) error {
	f.Writes++
	return ErrStorageFull
}
func (f *FailingStore) RemoveItem(_ string) error { return ErrStorageFull }

// MockFetcher implements fetch.Fetcher from canned results.
type MockFetcher struct {
	mu        sync.Mutex
	Lists     map[int][]models.Listing
	Details   map[string]models.Detail
	Err       error
	ListCalls []int
}

func (m *MockFetcher) FetchList(_ context.Context, speciesID int) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, speciesID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Lists[speciesID], nil
}

func (m *MockFetcher) FetchDetail(_ context.Context, id string) (models.Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Detail{}, m.Err
	}
	d, ok := m.Details[id]
	if !ok {
		return models.Detail{}, &fetch.Error{Status: 404, Err: fetch.ErrNotFound}
	}
	return d, nil
}

// SetErr switches every subsequent fetch to fail with err (nil restores).
func (m *MockFetcher) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	return append([]byte(nil), val...), nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	return append([]byte(nil), val...), nil
}

func (m *MockCompressor) Close() {}
