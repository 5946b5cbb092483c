package storage

import (
	"fmt"

	"adoptwatch/internal/providers"
	"adoptwatch/internal/structures"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Backend is the configured host store. Memory is set only for the memory
// backend, whose contents are persisted by snapshot.
type Backend struct {
	KV     KeyValueStore
	Memory *MemoryStore
	closer func() error
}

// Open builds the configured backend wrapped in the read-through cache and
// key prefix.
func Open(conf *structures.Config, cache providers.CacheProviderInterface) (*Backend, error) {
	b := &Backend{closer: func() error { return nil }}
	var kv KeyValueStore
	switch conf.Storage.Backend {
	case BackendBadger:
		db, err := OpenBadger(conf.Storage.Path)
		if err != nil {
			return nil, err
		}
		kv = db
		b.closer = db.Close
	case BackendMemory, "":
		b.Memory = NewMemoryStore(conf.Storage.QuotaBytes)
		kv = b.Memory
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
	b.KV = WithPrefix(NewCachedStore(kv, cache), conf.Storage.KeyPrefix)
	return b, nil
}

func (b *Backend) Close() error {
	return b.closer()
}
