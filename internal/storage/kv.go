// Package storage is the host key-value store the record stores live in.
package storage

import "errors"

var (
	ErrNotFound      = errors.New("storage: key not found")
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// KeyValueStore holds one opaque value per key. GetItem returns ErrNotFound
// for an absent key; RemoveItem on an absent key is not an error.
type KeyValueStore interface {
	GetItem(key string) ([]byte, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
}

// Prefixed namespaces every key of an underlying store.
type Prefixed struct {
	kv     KeyValueStore
	prefix string
}

func WithPrefix(kv KeyValueStore, prefix string) KeyValueStore {
	if prefix == "" {
		return kv
	}
	return &Prefixed{kv: kv, prefix: prefix}
}

func (p *Prefixed) GetItem(key string) ([]byte, error) { return p.kv.GetItem(p.prefix + key) }

func (p *Prefixed) SetItem(key string, value []byte) error {
	return p.kv.SetItem(p.prefix+key, value)
}

func (p *Prefixed) RemoveItem(key string) error { return p.kv.RemoveItem(p.prefix + key) }
