package models

// Tab is one species tab of the viewer and the remote species it queries.
type Tab struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	SpeciesID int    `json:"speciesId"`
}

var Tabs = [MaxTab + 1]Tab{
	{0, "All", 0},
	{1, "Dogs", 1},
	{2, "Cats", 2},
	{3, "Rabbits", 3},
	{4, "Small & Furry", 5},
	{5, "Birds", 8},
}

// SpeciesForTab returns the remote species ID of tab, or false for an
// unknown tab.
func SpeciesForTab(tab int) (int, bool) {
	if !ValidTab(int64(tab)) {
		return 0, false
	}
	return Tabs[tab].SpeciesID, true
}
