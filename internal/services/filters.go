package services

import (
	"cmp"
	"slices"
	"strings"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
	"adoptwatch/internal/newmatch"
)

// PageSize is how many listings one page of results holds.
const PageSize = 24

// matchesFilters applies the viewer's filter controls. Age bounds are in
// months and inclusive; a blank bound is open.
func matchesFilters(l models.Listing, f models.SearchFilters, seen map[string]bool) bool {
	if q := strings.ToLower(f.Query); q != "" {
		hay := strings.ToLower(strings.Join([]string{l.Name, l.PrimaryBreed, l.SecondaryBreed, l.ID}, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if len(f.Breeds) > 0 && !slices.ContainsFunc(f.Breeds, func(b string) bool {
		return strings.EqualFold(b, l.PrimaryBreed) || strings.EqualFold(b, l.SecondaryBreed)
	}) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(f.Gender, l.Sex) {
		return false
	}
	if lo, ok := codec.Number(f.AgeMin); ok && float64(l.Age) < lo {
		return false
	}
	if hi, ok := codec.Number(f.AgeMax); ok && float64(l.Age) > hi {
		return false
	}
	if f.Stage != "" && !strings.EqualFold(f.Stage, l.Stage) {
		return false
	}
	if f.HideSeen && seen[newmatch.MatchKey(l.Species, l.ID)] {
		return false
	}
	return true
}

func sortListings(views []ListingView, sortBy string) {
	switch sortBy {
	case models.SortBreed:
		slices.SortStableFunc(views, func(a, b ListingView) int {
			return cmp.Compare(strings.ToLower(a.PrimaryBreed), strings.ToLower(b.PrimaryBreed))
		})
	case models.SortAge:
		slices.SortStableFunc(views, func(a, b ListingView) int {
			return cmp.Compare(a.Age, b.Age)
		})
	}
}

// paginate returns the 1-based page of views and the page count.
func paginate(views []ListingView, page int) ([]ListingView, int) {
	pages := max((len(views)+PageSize-1)/PageSize, 1)
	page = min(max(page, 1), pages)
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(views))
	return views[start:end], pages
}
