package models

import (
	"time"

	"adoptwatch/internal/codec"
)

// SeenRecord marks one listing of one species as viewed at Timestamp (epoch ms).
type SeenRecord struct {
	ID        string `json:"id"`
	Species   string `json:"species"`
	Timestamp int64  `json:"timestamp"`
}

var SeenCodec codec.Codec[SeenRecord] = codec.Func[SeenRecord](NormalizeSeen)

func NormalizeSeen(raw any) (SeenRecord, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return SeenRecord{}, false
	}
	id, ok := codec.ID(obj["id"])
	if !ok {
		return SeenRecord{}, false
	}
	ts, ok := codec.Int(obj["timestamp"])
	if !ok || ts <= 0 {
		return SeenRecord{}, false
	}
	return SeenRecord{ID: id, Species: SpeciesKey(codec.Text(obj["species"])), Timestamp: ts}, true
}

// Key identifies the (ID, species) pair duplicates collapse on.
func (s SeenRecord) Key() string { return s.Species + "|" + s.ID }

func (s SeenRecord) Time() time.Time { return time.UnixMilli(s.Timestamp) }
