// Package urlstate maps the viewer's tab, filters and page to and from a flat
// query-parameter map.
package urlstate

import (
	"strconv"
	"strings"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
)

// State is what the query string carries. Page is 1-based.
type State struct {
	Tab     int
	Filters models.SearchFilters
	Page    int
}

// Decode reads params leniently: every malformed value falls back to its
// default, as preset filters do.
func Decode(params map[string]string) State {
	s := State{Page: 1}
	if tab, ok := codec.Int(params["tab"]); ok && models.ValidTab(tab) {
		s.Tab = int(tab)
	}
	raw := map[string]any{
		"query":  params["q"],
		"gender": params["gender"],
		"ageMin": params["ageMin"],
		"ageMax": params["ageMax"],
		"stage":  params["stage"],
		"sortBy": params["sort"],
	}
	if b, ok := codec.Bool(params["hideSeen"]); ok {
		raw["hideSeen"] = b
	} else if params["hideSeen"] == "1" {
		raw["hideSeen"] = true
	}
	var breeds []any
	for _, b := range strings.Split(params["breed"], ",") {
		breeds = append(breeds, b)
	}
	raw["breeds"] = breeds
	s.Filters = models.NormalizeFilters(raw)
	if page, ok := codec.Int(params["page"]); ok && page > 1 {
		s.Page = int(page)
	}
	return s
}

// Encode writes only non-default values.
func Encode(s State) map[string]string {
	out := make(map[string]string)
	f := models.NormalizeFilters(filtersToRaw(s.Filters))
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	if s.Tab > 0 && models.ValidTab(int64(s.Tab)) {
		out["tab"] = strconv.Itoa(s.Tab)
	}
	set("q", f.Query)
	set("breed", strings.Join(f.Breeds, ","))
	set("gender", f.Gender)
	set("ageMin", f.AgeMin)
	set("ageMax", f.AgeMax)
	set("stage", f.Stage)
	set("sort", f.SortBy)
	if f.HideSeen {
		out["hideSeen"] = "true"
	}
	if s.Page > 1 {
		out["page"] = strconv.Itoa(s.Page)
	}
	return out
}

func filtersToRaw(f models.SearchFilters) map[string]any {
	breeds := make([]any, len(f.Breeds))
	for i, b := range f.Breeds {
		breeds[i] = b
	}
	return map[string]any{
		"query":    f.Query,
		"breeds":   breeds,
		"gender":   f.Gender,
		"ageMin":   f.AgeMin,
		"ageMax":   f.AgeMax,
		"stage":    f.Stage,
		"sortBy":   f.SortBy,
		"hideSeen": f.HideSeen,
	}
}
