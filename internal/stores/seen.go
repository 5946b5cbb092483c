package stores

import (
	"time"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/expiry"
	"adoptwatch/internal/models"
)

// Seen is the viewed-listing history. It expires on a fixed window and is
// never renewed by reads.
type Seen struct {
	base
	policy expiry.Policy
}

func (s *Seen) Read() []models.SeenRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Seen) read() []models.SeenRecord {
	raw, ok := s.slot.Load()
	if !ok {
		return []models.SeenRecord{}
	}
	list, dropped, expired := s.normalize(raw, s.clock.Now())
	s.report(len(list), dropped, expired)
	if dropped+expired > 0 {
		s.write(list)
	}
	return list
}

// normalize collapses duplicate (ID, species) pairs onto the newest
// timestamp before applying expiry.
func (s *Seen) normalize(raw any, now time.Time) ([]models.SeenRecord, int, int) {
	list, dropped := codec.NormalizeList(raw, models.SeenCodec)
	index := make(map[string]int, len(list))
	merged := make([]models.SeenRecord, 0, len(list))
	for _, rec := range list {
		if i, ok := index[rec.Key()]; ok {
			merged[i].Timestamp = max(merged[i].Timestamp, rec.Timestamp)
			dropped++
			continue
		}
		index[rec.Key()] = len(merged)
		merged = append(merged, rec)
	}
	merged, expired := expiry.Apply(s.policy, merged, now, models.SeenRecord.Time, nil)
	return merged, dropped, expired
}

func (s *Seen) write(list []models.SeenRecord) bool {
	return s.slot.Save(canonicalList(models.SeenCodec, list))
}

// Mark records that id of species was viewed now.
func (s *Seen) Mark(id, species string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := models.SeenRecord{ID: id, Species: models.SpeciesKey(species), Timestamp: s.clock.Now().UnixMilli()}
	if _, ok := codec.Canonical(models.SeenCodec, rec); !ok {
		return false
	}
	list := s.read()
	for i := range list {
		if list[i].Key() == rec.Key() {
			list[i].Timestamp = rec.Timestamp
			return s.write(list)
		}
	}
	return s.write(append(list, rec))
}

func (s *Seen) Has(id, species string) bool {
	_, ok := s.Keys()[models.SeenRecord{ID: id, Species: models.SpeciesKey(species)}.Key()]
	return ok
}

// Keys is the set of seen species|id keys.
func (s *Seen) Keys() map[string]bool {
	list := s.Read()
	out := make(map[string]bool, len(list))
	for _, rec := range list {
		out[rec.Key()] = true
	}
	return out
}

func (s *Seen) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.Remove()
}

func (s *Seen) Replace(raw any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, dropped, expired := s.normalize(raw, s.clock.Now())
	s.report(len(list), dropped, expired)
	s.write(list)
	return len(list)
}
