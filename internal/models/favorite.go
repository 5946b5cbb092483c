package models

import (
	"time"

	"adoptwatch/internal/codec"
)

// FavoriteRecord is a full listing snapshot plus the epoch-ms time it was
// last saved or read.
type FavoriteRecord struct {
	Listing
	SavedAt int64 `json:"savedAt"`
}

var FavoriteCodec codec.Codec[FavoriteRecord] = codec.Func[FavoriteRecord](NormalizeFavorite)

func NormalizeFavorite(raw any) (FavoriteRecord, bool) {
	listing, ok := NormalizeListing(raw)
	if !ok {
		return FavoriteRecord{}, false
	}
	obj, _ := codec.Object(raw)
	savedAt, ok := codec.Int(obj["savedAt"])
	if !ok || savedAt <= 0 {
		return FavoriteRecord{}, false
	}
	return FavoriteRecord{Listing: listing, SavedAt: savedAt}, true
}

func (f FavoriteRecord) SavedTime() time.Time { return time.UnixMilli(f.SavedAt) }

func (f FavoriteRecord) Renewed(now time.Time) FavoriteRecord {
	f.SavedAt = now.UnixMilli()
	return f
}
