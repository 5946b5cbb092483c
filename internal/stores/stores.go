// Package stores holds the record stores. Each owns exactly one key of the
// host key-value store and exposes typed operations only.
package stores

import (
	"sync"
	"time"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/expiry"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"

	"github.com/benbjohnson/clock"
)

const (
	KeyFavorites           = "favorites"
	KeyFavoritesDisclaimer = "favorites-disclaimer"
	KeySeenPets            = "seen-pets"
	KeySeenEnabled         = "seen-enabled"
	KeySyncTimestamps      = "sync-timestamps"
	KeyNewMatchSnapshots   = "new-match-snapshots"
	KeySearchPresets       = "search-presets"
	KeyAdoptionChecklists  = "adoption-checklists"
	KeyOfflineListCache    = "offline-list-cache"
	KeyOfflineDetailCache  = "offline-detail-cache"
	KeyFitPreferences      = "personal-fit-preferences"
	KeyFitEnabled          = "personal-fit-enabled"
)

// Set is every store over one key-value store.
type Set struct {
	Favorites   *Favorites
	Disclaimer  *Flag
	Seen        *Seen
	SeenEnabled *Flag
	Sync        *SyncTimestamps
	Snapshots   *Snapshots
	Presets     *Presets
	Checklists  *Checklists
	Lists       *ListCache
	Details     *DetailCache
	Preferences *Preferences
	FitEnabled  *Flag
}

// New wires every store. Zero TTLs in conf fall back to the defaults.
func New(kv storage.KeyValueStore, conf *structures.Config, clk clock.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *Set {
	env := func(key string) base {
		return base{
			mu:      &sync.Mutex{},
			name:    key,
			slot:    storage.NewSlot(kv, key, logger, metrics),
			clock:   clk,
			logger:  logger,
			metrics: metrics,
		}
	}
	favTTL := orDefault(conf.Expiry.FavoritesTTL, expiry.FavoritesTTL)
	seenTTL := orDefault(conf.Expiry.SeenTTL, expiry.SeenTTL)
	staleAfter := orDefault(conf.Expiry.StaleAfter, expiry.StaleAfter)

	return &Set{
		Favorites:   &Favorites{base: env(KeyFavorites), policy: expiry.Sliding(favTTL)},
		Disclaimer:  &Flag{base: env(KeyFavoritesDisclaimer), removeWhenFalse: true},
		Seen:        &Seen{base: env(KeySeenPets), policy: expiry.Fixed(seenTTL)},
		SeenEnabled: &Flag{base: env(KeySeenEnabled), def: true},
		Sync:        &SyncTimestamps{base: env(KeySyncTimestamps), staleAfter: staleAfter},
		Snapshots:   &Snapshots{base: env(KeyNewMatchSnapshots)},
		Presets:     &Presets{base: env(KeySearchPresets)},
		Checklists:  &Checklists{base: env(KeyAdoptionChecklists)},
		Lists:       &ListCache{base: env(KeyOfflineListCache)},
		Details:     &DetailCache{base: env(KeyOfflineDetailCache), max: conf.Offline.MaxDetails},
		Preferences: &Preferences{base: env(KeyFitPreferences)},
		FitEnabled:  &Flag{base: env(KeyFitEnabled)},
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// base is what every store shares: its slot, a lock serializing
// read-modify-write cycles, and the clock reads are evaluated against.
type base struct {
	mu      *sync.Mutex
	name    string
	slot    *storage.Slot
	clock   clock.Clock
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func (b *base) report(kept, dropped, expired int) {
	if dropped > 0 {
		b.logger.Debugf(providers.TypeStorage, "%s: dropped %d malformed records", b.name, dropped)
	}
	b.metrics.AddDroppedRecords(b.name, dropped)
	b.metrics.AddExpiredRecords(b.name, expired)
	b.metrics.SetRecordsTotal(b.name, kept)
}

// canonicalList re-normalizes every item through its serialized form and
// drops any that no longer validate.
func canonicalList[T any](c codec.Codec[T], items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := codec.Canonical(c, item); ok {
			out = append(out, v)
		}
	}
	return out
}

func canonicalMap[K comparable, T any](c codec.Codec[T], items map[K]T) map[K]T {
	out := make(map[K]T, len(items))
	for k, item := range items {
		if v, ok := codec.Canonical(c, item); ok {
			out[k] = v
		}
	}
	return out
}
