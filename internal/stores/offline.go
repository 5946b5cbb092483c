package stores

import (
	"slices"
	"strconv"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
)

// ListCache keeps the last successful list fetch per tab. Entries never
// expire.
type ListCache struct {
	base
}

func (l *ListCache) Read() models.ListCache {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *ListCache) read() models.ListCache {
	raw, ok := l.slot.Load()
	if !ok {
		return models.ListCache{}
	}
	cache, dropped := models.NormalizeListCache(raw)
	l.report(len(cache), dropped, 0)
	return cache
}

func (l *ListCache) write(cache models.ListCache) bool {
	out := make(map[string]models.CachedListEntry, len(cache))
	for tab, e := range cache {
		if !models.ValidTab(int64(tab)) {
			continue
		}
		if v, ok := codec.Canonical(models.ListEntryCodec, e); ok {
			out[strconv.Itoa(tab)] = v
		}
	}
	return l.slot.Save(out)
}

// Put overwrites the entry for tab.
func (l *ListCache) Put(tab, speciesID int, pets []models.Listing) bool {
	if !models.ValidTab(int64(tab)) || speciesID < 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cache := l.read()
	cache[tab] = models.CachedListEntry{
		Timestamp: l.clock.Now().UnixMilli(),
		SpeciesID: speciesID,
		Pets:      slices.Clone(pets),
	}
	return l.write(cache)
}

func (l *ListCache) Get(tab int) (models.CachedListEntry, bool) {
	e, ok := l.Read()[tab]
	return e, ok
}

func (l *ListCache) Replace(raw any) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cache, dropped := models.NormalizeListCache(raw)
	l.report(len(cache), dropped, 0)
	l.write(cache)
	return len(cache)
}

// DetailCache keeps the last successful detail fetch per listing, bounded to
// the newest max entries when max is positive.
type DetailCache struct {
	base
	max int
}

func (d *DetailCache) Read() models.DetailCache {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

func (d *DetailCache) read() models.DetailCache {
	raw, ok := d.slot.Load()
	if !ok {
		return models.DetailCache{}
	}
	cache, dropped := models.NormalizeDetailCache(raw)
	d.report(len(cache), dropped, 0)
	return cache
}

func (d *DetailCache) write(cache models.DetailCache) bool {
	return d.slot.Save(canonicalMap(models.DetailEntryCodec, d.bound(cache)))
}

// bound evicts the oldest entries beyond max. Ties break on ID so eviction
// is deterministic.
func (d *DetailCache) bound(cache models.DetailCache) models.DetailCache {
	if d.max <= 0 || len(cache) <= d.max {
		return cache
	}
	ids := make([]string, 0, len(cache))
	for id := range cache {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if ta, tb := cache[a].Timestamp, cache[b].Timestamp; ta != tb {
			if ta > tb {
				return -1
			}
			return 1
		}
		if a < b {
			return -1
		}
		return 1
	})
	out := make(models.DetailCache, d.max)
	for _, id := range ids[:d.max] {
		out[id] = cache[id]
	}
	return out
}

func (d *DetailCache) Put(detail models.Detail) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cache := d.read()
	cache[detail.ID] = models.CachedDetailEntry{Timestamp: d.clock.Now().UnixMilli(), Details: detail}
	return d.write(cache)
}

func (d *DetailCache) Get(id string) (models.CachedDetailEntry, bool) {
	e, ok := d.Read()[id]
	return e, ok
}

func (d *DetailCache) Replace(raw any) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	cache, dropped := models.NormalizeDetailCache(raw)
	d.report(len(cache), dropped, 0)
	cache = d.bound(cache)
	d.write(cache)
	return len(cache)
}
