package models

import (
	"strings"

	"adoptwatch/internal/codec"
)

const MaxPresetName = 64

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	SortBreed = "breed"
	SortAge   = "age"
)

// SearchFilters are the filter controls a preset restores. Every field is
// validated on its own; an invalid value resets to its zero value.
type SearchFilters struct {
	Query    string   `json:"query"`
	Breeds   []string `json:"breeds"`
	Gender   string   `json:"gender"`
	AgeMin   string   `json:"ageMin"`
	AgeMax   string   `json:"ageMax"`
	Stage    string   `json:"stage"`
	SortBy   string   `json:"sortBy"`
	HideSeen bool     `json:"hideSeen"`
}

type SearchPreset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	SelectedTab int           `json:"selectedTab"`
	Filters     SearchFilters `json:"filters"`
	CreatedAt   int64         `json:"createdAt"`
}

var PresetCodec codec.Codec[SearchPreset] = codec.Func[SearchPreset](NormalizePreset)

// NormalizePreset requires an ID and a non-blank name. The tab and filters
// never reject the preset.
func NormalizePreset(raw any) (SearchPreset, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return SearchPreset{}, false
	}
	id, ok := codec.ID(obj["id"])
	if !ok {
		return SearchPreset{}, false
	}
	name, ok := PresetName(obj["name"])
	if !ok {
		return SearchPreset{}, false
	}
	p := SearchPreset{ID: id, Name: name, Filters: NormalizeFilters(obj["filters"])}
	if tab, ok := codec.Int(obj["selectedTab"]); ok && ValidTab(tab) {
		p.SelectedTab = int(tab)
	}
	if ts, ok := codec.Int(obj["createdAt"]); ok && ts > 0 {
		p.CreatedAt = ts
	}
	return p, true
}

// PresetName trims and truncates a candidate name; blank names are rejected.
func PresetName(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(codec.Truncate(strings.TrimSpace(s), MaxPresetName))
	return s, s != ""
}

// NormalizeFilters never fails. Missing or malformed input yields empty filters.
func NormalizeFilters(raw any) SearchFilters {
	f := SearchFilters{Breeds: []string{}}
	obj, ok := codec.Object(raw)
	if !ok {
		return f
	}
	if s, ok := obj["query"].(string); ok {
		f.Query = strings.TrimSpace(s)
	}
	if items, ok := codec.Array(obj["breeds"]); ok {
		breeds := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				breeds = append(breeds, strings.TrimSpace(s))
			}
		}
		f.Breeds = DedupeIDs(breeds)
	}
	if s, ok := obj["gender"].(string); ok && (s == GenderMale || s == GenderFemale) {
		f.Gender = s
	}
	f.AgeMin = numericString(obj["ageMin"])
	f.AgeMax = numericString(obj["ageMax"])
	if s, ok := obj["stage"].(string); ok {
		f.Stage = strings.TrimSpace(s)
	}
	if s, ok := obj["sortBy"].(string); ok && (s == SortBreed || s == SortAge) {
		f.SortBy = s
	}
	if b, ok := obj["hideSeen"].(bool); ok {
		f.HideSeen = b
	}
	return f
}

// numericString keeps a trimmed string only when it parses as a finite number.
func numericString(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if _, ok := codec.Number(s); !ok {
		return ""
	}
	return s
}

// NameKey is the case-insensitive uniqueness key of a preset name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePresets normalizes each preset and drops later duplicates by ID
// or by case-insensitive name.
func NormalizePresets(raw any) ([]SearchPreset, int) {
	list, dropped := codec.NormalizeList(raw, PresetCodec)
	ids := make(map[string]struct{}, len(list))
	names := make(map[string]struct{}, len(list))
	out := make([]SearchPreset, 0, len(list))
	for _, p := range list {
		_, dupID := ids[p.ID]
		_, dupName := names[NameKey(p.Name)]
		if dupID || dupName {
			dropped++
			continue
		}
		ids[p.ID] = struct{}{}
		names[NameKey(p.Name)] = struct{}{}
		out = append(out, p)
	}
	return out, dropped
}
