package models

import (
	"strconv"
	"strings"

	"adoptwatch/internal/codec"
)

// CachedListEntry is the last successful list fetch for one tab.
type CachedListEntry struct {
	Timestamp int64     `json:"timestamp"`
	SpeciesID int       `json:"speciesId"`
	Pets      []Listing `json:"pets"`
}

// CachedDetailEntry is the last successful detail fetch for one listing.
type CachedDetailEntry struct {
	Timestamp int64  `json:"timestamp"`
	Details   Detail `json:"details"`
}

type ListCache map[int]CachedListEntry

type DetailCache map[string]CachedDetailEntry

var ListEntryCodec codec.Codec[CachedListEntry] = codec.Func[CachedListEntry](NormalizeListEntry)

var DetailEntryCodec codec.Codec[CachedDetailEntry] = codec.Func[CachedDetailEntry](NormalizeDetailEntry)

// NormalizeListEntry keeps the entry when its shape is valid and drops
// malformed pets one by one.
func NormalizeListEntry(raw any) (CachedListEntry, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return CachedListEntry{}, false
	}
	ts, ok := codec.Int(obj["timestamp"])
	if !ok || ts <= 0 {
		return CachedListEntry{}, false
	}
	species, ok := codec.Int(obj["speciesId"])
	if !ok || species < 0 {
		return CachedListEntry{}, false
	}
	if _, ok := codec.Array(obj["pets"]); !ok {
		return CachedListEntry{}, false
	}
	pets, _ := codec.NormalizeList(obj["pets"], ListingCodec)
	return CachedListEntry{Timestamp: ts, SpeciesID: int(species), Pets: pets}, true
}

func NormalizeDetailEntry(raw any) (CachedDetailEntry, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return CachedDetailEntry{}, false
	}
	ts, ok := codec.Int(obj["timestamp"])
	if !ok || ts <= 0 {
		return CachedDetailEntry{}, false
	}
	d, ok := NormalizeDetail(obj["details"])
	if !ok {
		return CachedDetailEntry{}, false
	}
	return CachedDetailEntry{Timestamp: ts, Details: d}, true
}

func NormalizeListCache(raw any) (ListCache, int) {
	entries, dropped := codec.NormalizeMap(raw, func(key string, v any) (string, CachedListEntry, bool) {
		tab, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || !ValidTab(int64(tab)) {
			return "", CachedListEntry{}, false
		}
		e, ok := NormalizeListEntry(v)
		return strconv.Itoa(tab), e, ok
	})
	out := make(ListCache, len(entries))
	for k, e := range entries {
		tab, _ := strconv.Atoi(k)
		out[tab] = e
	}
	return out, dropped
}

// NormalizeDetailCache drops entries whose key differs from the detail ID.
func NormalizeDetailCache(raw any) (DetailCache, int) {
	out, dropped := codec.NormalizeMap(raw, func(key string, v any) (string, CachedDetailEntry, bool) {
		e, ok := NormalizeDetailEntry(v)
		if !ok || e.Details.ID != key {
			return "", CachedDetailEntry{}, false
		}
		return key, e, true
	})
	return DetailCache(out), dropped
}
