package models

import (
	"slices"

	"adoptwatch/internal/codec"
)

const MaxChecklistNotes = 1000

// ChecklistItems is the closed set of adoption-checklist item IDs.
var ChecklistItems = []string{
	"meet-and-greet",
	"home-visit",
	"application-submitted",
	"references-checked",
	"vet-records-reviewed",
	"supplies-ready",
	"budget-planned",
	"household-agreed",
}

func IsChecklistItem(id string) bool {
	return slices.Contains(ChecklistItems, id)
}

type AdoptionChecklist struct {
	Items map[string]bool `json:"items"`
	Notes string          `json:"notes"`
}

// AdoptionChecklists is keyed by listing ID.
type AdoptionChecklists map[string]AdoptionChecklist

var ChecklistCodec codec.Codec[AdoptionChecklist] = codec.Func[AdoptionChecklist](NormalizeChecklist)

// NewChecklist has every item present and unchecked.
func NewChecklist() AdoptionChecklist {
	items := make(map[string]bool, len(ChecklistItems))
	for _, id := range ChecklistItems {
		items[id] = false
	}
	return AdoptionChecklist{Items: items}
}

// NormalizeChecklist drops unknown item IDs and non-boolean values; missing
// items default to false.
func NormalizeChecklist(raw any) (AdoptionChecklist, bool) {
	obj, ok := codec.Object(raw)
	if !ok {
		return AdoptionChecklist{}, false
	}
	c := NewChecklist()
	if items, ok := codec.Object(obj["items"]); ok {
		for id, v := range items {
			if b, ok := v.(bool); ok && IsChecklistItem(id) {
				c.Items[id] = b
			}
		}
	}
	if s, ok := obj["notes"].(string); ok {
		c.Notes = codec.Truncate(s, MaxChecklistNotes)
	}
	return c, true
}

func NormalizeChecklists(raw any) (AdoptionChecklists, int) {
	out, dropped := codec.NormalizeMap(raw, func(key string, v any) (string, AdoptionChecklist, bool) {
		id, ok := codec.ID(key)
		if !ok {
			return "", AdoptionChecklist{}, false
		}
		c, ok := NormalizeChecklist(v)
		return id, c, ok
	})
	return AdoptionChecklists(out), dropped
}

// Empty reports whether nothing is checked and there are no notes.
func (c AdoptionChecklist) Empty() bool {
	for _, done := range c.Items {
		if done {
			return false
		}
	}
	return c.Notes == ""
}

// Completed counts checked items.
func (c AdoptionChecklist) Completed() int {
	n := 0
	for _, done := range c.Items {
		if done {
			n++
		}
	}
	return n
}
