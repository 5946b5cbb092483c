// Package newmatch flags listings that appeared since the last visit, per
// species.
package newmatch

import (
	"maps"
	"time"

	"adoptwatch/internal/models"
	"adoptwatch/internal/stores"

	"github.com/benbjohnson/clock"
)

// SpeciesKey is the grouping key of a species label.
func SpeciesKey(species string) string {
	return models.SpeciesKey(species)
}

// MatchKey tags a new match as species|id.
func MatchKey(species, id string) string {
	return SpeciesKey(species) + "|" + id
}

// bucket groups listing IDs by species key, keeping first-seen order.
// Listings with a blank species or ID are skipped.
func bucket(pets []models.Listing) (map[string][]string, []string) {
	groups := make(map[string][]string)
	var order []string
	for _, pet := range pets {
		species := SpeciesKey(pet.Species)
		if species == "" || pet.ID == "" {
			continue
		}
		if _, ok := groups[species]; !ok {
			order = append(order, species)
		}
		groups[species] = append(groups[species], pet.ID)
	}
	for species, ids := range groups {
		groups[species] = models.DedupeIDs(ids)
	}
	return groups, order
}

// Compute diffs pets against prev. A species without a prior snapshot only
// establishes its baseline. Every observed species gets its snapshot
// replaced by the current IDs; other species keep theirs.
func Compute(prev models.NewMatchSnapshots, pets []models.Listing, now time.Time) (map[string]bool, models.NewMatchSnapshots) {
	groups, order := bucket(pets)
	matches := make(map[string]bool)
	next := maps.Clone(prev)
	if next == nil {
		next = models.NewMatchSnapshots{}
	}
	for _, species := range order {
		ids := groups[species]
		if old, ok := prev[species]; ok {
			for _, id := range ids {
				if !old.Contains(id) {
					matches[species+"|"+id] = true
				}
			}
		}
		next[species] = models.NewMatchSnapshot{IDs: ids, UpdatedAt: now.UnixMilli()}
	}
	return matches, next
}

// Rebaseline resets the chosen species to the IDs currently in pets without
// reporting a diff. An empty species list resets every species in pets.
// Chosen species with no current listings are left alone.
func Rebaseline(prev models.NewMatchSnapshots, pets []models.Listing, species []string, now time.Time) models.NewMatchSnapshots {
	groups, order := bucket(pets)
	chosen := order
	if len(species) > 0 {
		chosen = chosen[:0:0]
		for _, s := range species {
			chosen = append(chosen, SpeciesKey(s))
		}
	}
	next := maps.Clone(prev)
	if next == nil {
		next = models.NewMatchSnapshots{}
	}
	for _, s := range chosen {
		ids, ok := groups[s]
		if !ok {
			continue
		}
		next[s] = models.NewMatchSnapshot{IDs: ids, UpdatedAt: now.UnixMilli()}
	}
	return next
}

// Engine runs the diff against the snapshot store.
type Engine struct {
	snapshots *stores.Snapshots
	clock     clock.Clock
}

func NewEngine(snapshots *stores.Snapshots, clk clock.Clock) *Engine {
	return &Engine{snapshots: snapshots, clock: clk}
}

// Diff returns the new-match keys of pets and persists the replaced
// snapshots in the same read-modify-write.
func (e *Engine) Diff(pets []models.Listing) map[string]bool {
	var matches map[string]bool
	e.snapshots.Update(func(prev models.NewMatchSnapshots) models.NewMatchSnapshots {
		var next models.NewMatchSnapshots
		matches, next = Compute(prev, pets, e.clock.Now())
		return next
	})
	return matches
}

// Clear dismisses the new badges of the chosen species.
func (e *Engine) Clear(pets []models.Listing, species []string) {
	e.snapshots.Update(func(prev models.NewMatchSnapshots) models.NewMatchSnapshots {
		return Rebaseline(prev, pets, species, e.clock.Now())
	})
}
