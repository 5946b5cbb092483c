package models

import "adoptwatch/internal/codec"

// NewMatchSnapshot is every listing ID seen for one species as of UpdatedAt.
type NewMatchSnapshot struct {
	IDs       []string `json:"ids"`
	UpdatedAt int64    `json:"updatedAt"`
}

// NewMatchSnapshots is keyed by species key.
type NewMatchSnapshots map[string]NewMatchSnapshot

var SnapshotCodec codec.Codec[NewMatchSnapshot] = codec.Func[NewMatchSnapshot](NormalizeSnapshot)

// NormalizeSnapshot requires an ids array; IDs are deduplicated in
// first-seen order and non-ID elements are skipped.
func NormalizeSnapshot(raw any) (NewMatchSnapshot, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return NewMatchSnapshot{}, false
	}
	items, ok := codec.Array(obj["ids"])
	if !ok {
		return NewMatchSnapshot{}, false
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := codec.ID(item); ok {
			ids = append(ids, id)
		}
	}
	snap := NewMatchSnapshot{IDs: DedupeIDs(ids)}
	if ts, ok := codec.Int(obj["updatedAt"]); ok && ts > 0 {
		snap.UpdatedAt = ts
	}
	return snap, true
}

func NormalizeSnapshots(raw any) (NewMatchSnapshots, int) {
	out, dropped := codec.NormalizeMap(raw, func(key string, v any) (string, NewMatchSnapshot, bool) {
		species := SpeciesKey(key)
		if species == "" {
			return "", NewMatchSnapshot{}, false
		}
		snap, ok := NormalizeSnapshot(v)
		return species, snap, ok
	})
	return NewMatchSnapshots(out), dropped
}

// DedupeIDs removes repeated IDs keeping first-seen order.
func DedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s NewMatchSnapshot) Contains(id string) bool {
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}
