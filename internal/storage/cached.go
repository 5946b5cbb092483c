package storage

import "adoptwatch/internal/providers"

// CachedStore serves reads from a byte cache in front of another store.
// Writes go to the store first and only then refresh the cache. A value the
// cache refuses evicts the key, so a stale copy is never served.
type CachedStore struct {
	kv    KeyValueStore
	cache providers.CacheProviderInterface
}

func NewCachedStore(kv KeyValueStore, cache providers.CacheProviderInterface) *CachedStore {
	return &CachedStore{kv: kv, cache: cache}
}

func (c *CachedStore) GetItem(key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.kv.GetItem(key)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, v)
	return v, nil
}

func (c *CachedStore) SetItem(key string, value []byte) error {
	if err := c.kv.SetItem(key, value); err != nil {
		c.cache.Del(key)
		return err
	}
	if err := c.cache.Set(key, value); err != nil {
		c.cache.Del(key)
	}
	return nil
}

func (c *CachedStore) RemoveItem(key string) error {
	c.cache.Del(key)
	return c.kv.RemoveItem(key)
}
