package stores

import (
	"time"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/expiry"
	"adoptwatch/internal/models"
)

// Favorites keeps saved listings on a sliding window: every read renews the
// survivors.
type Favorites struct {
	base
	policy expiry.Policy
}

// Read purges expired favorites, renews the rest to now and persists the
// renewal.
func (f *Favorites) Read() []models.FavoriteRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *Favorites) read() []models.FavoriteRecord {
	raw, ok := f.slot.Load()
	if !ok {
		return []models.FavoriteRecord{}
	}
	list, dropped, expired := f.normalize(raw, f.clock.Now())
	f.report(len(list), dropped, expired)
	if (f.policy.Renew && len(list) > 0) || dropped+expired > 0 {
		f.write(list)
	}
	return list
}

func (f *Favorites) normalize(raw any, now time.Time) ([]models.FavoriteRecord, int, int) {
	list, dropped := codec.NormalizeList(raw, models.FavoriteCodec)
	list, dupes := dedupe(list, func(r models.FavoriteRecord) string { return r.ID })
	list, expired := expiry.Apply(f.policy, list, now,
		models.FavoriteRecord.SavedTime, models.FavoriteRecord.Renewed)
	return list, dropped + dupes, expired
}

func (f *Favorites) write(list []models.FavoriteRecord) bool {
	return f.slot.Save(canonicalList(models.FavoriteCodec, list))
}

// Add saves a snapshot of listing, replacing any earlier snapshot of the
// same ID.
func (f *Favorites) Add(listing models.Listing) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(listing)
}

func (f *Favorites) add(listing models.Listing) bool {
	rec := models.FavoriteRecord{Listing: listing, SavedAt: f.clock.Now().UnixMilli()}
	if _, ok := codec.Canonical(models.FavoriteCodec, rec); !ok {
		return false
	}
	list := f.read()
	for i := range list {
		if list[i].ID == listing.ID {
			list[i] = rec
			return f.write(list)
		}
	}
	return f.write(append(list, rec))
}

func (f *Favorites) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(id)
}

func (f *Favorites) remove(id string) bool {
	list := f.read()
	for i := range list {
		if list[i].ID == id {
			return f.write(append(list[:i], list[i+1:]...))
		}
	}
	return false
}

func (f *Favorites) Has(id string) bool {
	_, ok := f.IDs()[id]
	return ok
}

// Toggle adds the listing when absent and removes it otherwise. It reports
// whether the listing is a favorite afterwards.
func (f *Favorites) Toggle(listing models.Listing) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.read() {
		if rec.ID == listing.ID {
			f.remove(listing.ID)
			return false
		}
	}
	return f.add(listing)
}

// IDs is the set of favorite listing IDs.
func (f *Favorites) IDs() map[string]bool {
	list := f.Read()
	out := make(map[string]bool, len(list))
	for _, rec := range list {
		out[rec.ID] = true
	}
	return out
}

// Replace imports raw favorites through the read pipeline and returns how
// many were kept.
func (f *Favorites) Replace(raw any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, dropped, expired := f.normalize(raw, f.clock.Now())
	f.report(len(list), dropped, expired)
	f.write(list)
	return len(list)
}

// Unavailable returns the IDs of favorites whose species was fetched but
// which are missing from the fetched listings.
func Unavailable(favorites []models.FavoriteRecord, fetched []models.Listing) []string {
	species := make(map[string]bool)
	present := make(map[string]bool, len(fetched))
	for _, l := range fetched {
		species[models.SpeciesKey(l.Species)] = true
		present[l.ID] = true
	}
	var out []string
	for _, rec := range favorites {
		if species[models.SpeciesKey(rec.Species)] && !present[rec.ID] {
			out = append(out, rec.ID)
		}
	}
	return out
}

// dedupe keeps the first item per key.
func dedupe[T any](items []T, key func(T) string) ([]T, int) {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out, len(items) - len(out)
}
