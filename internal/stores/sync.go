package stores

import (
	"strconv"
	"time"

	"adoptwatch/internal/expiry"
	"adoptwatch/internal/models"
)

// SyncTimestamps records the last successful fetch per tab. Entries never
// expire; they only drive the staleness banner.
type SyncTimestamps struct {
	base
	staleAfter time.Duration
}

func (s *SyncTimestamps) Read() models.SyncTimestamps {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *SyncTimestamps) read() models.SyncTimestamps {
	raw, ok := s.slot.Load()
	if !ok {
		return models.SyncTimestamps{}
	}
	ts, dropped := models.NormalizeSyncTimestamps(raw)
	s.report(len(ts), dropped, 0)
	return ts
}

func (s *SyncTimestamps) write(ts models.SyncTimestamps) bool {
	out := make(map[string]int64, len(ts))
	for tab, v := range ts {
		if models.ValidTab(int64(tab)) && v > 0 {
			out[strconv.Itoa(tab)] = v
		}
	}
	return s.slot.Save(out)
}

// Record stores now as the last success for tab.
func (s *SyncTimestamps) Record(tab int) bool {
	if !models.ValidTab(int64(tab)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.read()
	ts[tab] = s.clock.Now().UnixMilli()
	return s.write(ts)
}

// Get returns the last success for tab, or false if none was recorded.
func (s *SyncTimestamps) Get(tab int) (time.Time, bool) {
	v, ok := s.Read()[tab]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(v), true
}

// IsStale reports whether tab's last success is older than the threshold.
// A tab that never synced is not stale.
func (s *SyncTimestamps) IsStale(tab int) bool {
	last, _ := s.Get(tab)
	return expiry.IsStale(last, s.clock.Now(), s.staleAfter)
}

func (s *SyncTimestamps) StaleAfter() time.Duration { return s.staleAfter }

func (s *SyncTimestamps) Replace(raw any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, dropped := models.NormalizeSyncTimestamps(raw)
	s.report(len(ts), dropped, 0)
	s.write(ts)
	return len(ts)
}
