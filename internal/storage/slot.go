package storage

import (
	"errors"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/providers"

	json "github.com/goccy/go-json"
)

// Slot is the only handle a record store gets: one fixed key holding one
// JSON value. Failures never reach the caller. Unreadable values read as
// absent and failed writes are logged and counted.
type Slot struct {
	kv      KeyValueStore
	key     string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewSlot(kv KeyValueStore, key string, logger providers.Logger, metrics providers.MetricsProviderInterface) *Slot {
	return &Slot{kv: kv, key: key, logger: logger, metrics: metrics}
}

func (s *Slot) Key() string { return s.key }

// Load returns the decoded JSON value, or false when the key is absent,
// unreadable or not valid JSON.
func (s *Slot) Load() (any, bool) {
	data, err := s.kv.GetItem(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warnf(providers.TypeStorage, "read %s: %v", s.key, err)
		}
		return nil, false
	}
	raw, err := codec.Decode(data)
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "discarding malformed %s: %v", s.key, err)
		return nil, false
	}
	return raw, true
}

// Save writes v as JSON and reports whether the write landed.
func (s *Slot) Save(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "encode %s: %v", s.key, err)
		s.metrics.IncStorageWriteFailures(s.key)
		return false
	}
	return s.SaveRaw(data)
}

func (s *Slot) SaveRaw(data []byte) bool {
	if err := s.kv.SetItem(s.key, data); err != nil {
		s.logger.Errorf(providers.TypeStorage, "write %s (%d bytes): %v", s.key, len(data), err)
		s.metrics.IncStorageWriteFailures(s.key)
		return false
	}
	return true
}

func (s *Slot) Remove() bool {
	if err := s.kv.RemoveItem(s.key); err != nil {
		s.logger.Errorf(providers.TypeStorage, "remove %s: %v", s.key, err)
		s.metrics.IncStorageWriteFailures(s.key)
		return false
	}
	return true
}
