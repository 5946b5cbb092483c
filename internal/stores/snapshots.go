package stores

import "adoptwatch/internal/models"

// Snapshots holds the per-species ID baselines of the new-match diff.
type Snapshots struct {
	base
}

func (s *Snapshots) Read() models.NewMatchSnapshots {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Snapshots) read() models.NewMatchSnapshots {
	raw, ok := s.slot.Load()
	if !ok {
		return models.NewMatchSnapshots{}
	}
	snaps, dropped := models.NormalizeSnapshots(raw)
	s.report(len(snaps), dropped, 0)
	return snaps
}

// Write replaces the whole store.
func (s *Snapshots) Write(snaps models.NewMatchSnapshots) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(snaps)
}

func (s *Snapshots) write(snaps models.NewMatchSnapshots) bool {
	return s.slot.Save(canonicalMap(models.SnapshotCodec, snaps))
}

// Update applies fn to the current snapshots and writes the result as one
// read-modify-write.
func (s *Snapshots) Update(fn func(models.NewMatchSnapshots) models.NewMatchSnapshots) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fn(s.read()))
}

func (s *Snapshots) Replace(raw any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, dropped := models.NormalizeSnapshots(raw)
	s.report(len(snaps), dropped, 0)
	s.write(snaps)
	return len(snaps)
}
