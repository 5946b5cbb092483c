package services

import (
	"context"
	"errors"

	"adoptwatch/internal/backup"
	"adoptwatch/internal/models"
	"adoptwatch/internal/newmatch"
	"adoptwatch/internal/offline"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/scoring"
	"adoptwatch/internal/stores"
	"adoptwatch/internal/urlstate"

	"github.com/benbjohnson/clock"
)

var ErrUnknownTab = errors.New("unknown tab")

type EngineServiceInterface interface {
	Listings(ctx context.Context, state urlstate.State) (ListingsView, error)
	Detail(ctx context.Context, tab int, id string) (offline.DetailResult, error)

	Favorites() FavoritesView
	AddFavorite(listing models.Listing) bool
	RemoveFavorite(id string) bool
	AcceptDisclaimer(accepted bool)

	Seen() SeenView
	MarkSeen(id, species string) bool
	ClearSeen() bool
	SetSeenEnabled(enabled bool)

	Presets() []models.SearchPreset
	SavePreset(name string, tab int, filters models.SearchFilters) (models.SearchPreset, error)
	DeletePreset(id string) error

	Checklist(id string) models.AdoptionChecklist
	UpdateChecklist(id string, items map[string]bool, notes *string) (models.AdoptionChecklist, error)

	Preferences() PreferencesView
	UpdatePreferences(prefs *models.FitPreferences, enabled *bool) PreferencesView

	ClearNewMatches(tab int, species []string) error

	Export() backup.Payload
	Import(data []byte) (backup.Summary, error)
}

type ListingView struct {
	models.Listing
	New      bool               `json:"new"`
	Seen     bool               `json:"seen"`
	Favorite bool               `json:"favorite"`
	Score    *scoring.Breakdown `json:"score,omitempty"`
}

type ListingsView struct {
	Tab         int            `json:"tab"`
	SpeciesID   int            `json:"speciesId"`
	State       offline.State  `json:"state"`
	Offline     bool           `json:"offline"`
	CachedAt    int64          `json:"cachedAt,omitempty"`
	Banner      offline.Banner `json:"banner"`
	Ranked      bool           `json:"ranked"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	Pages       int            `json:"pages"`
	Listings    []ListingView  `json:"listings"`
	NewMatches  int            `json:"newMatches"`
	Unavailable []string       `json:"unavailableFavorites"`
}

type FavoritesView struct {
	Favorites          []models.FavoriteRecord `json:"favorites"`
	DisclaimerAccepted bool                    `json:"disclaimerAccepted"`
}

type SeenView struct {
	Enabled bool                `json:"enabled"`
	Seen    []models.SeenRecord `json:"seen"`
}

type PreferencesView struct {
	Enabled     bool                  `json:"enabled"`
	Preferences models.FitPreferences `json:"preferences"`
}

// EngineService joins the stores with the diff, scoring, fallback and
// backup engines for the HTTP layer.
type EngineService struct {
	stores   *stores.Set
	selector *offline.Selector
	matches  *newmatch.Engine
	backup   *backup.Service
	clock    clock.Clock
	logger   providers.Logger
}

func NewEngineService(set *stores.Set, selector *offline.Selector, matches *newmatch.Engine, backupService *backup.Service, clk clock.Clock, logger providers.Logger) *EngineService {
	return &EngineService{
		stores:   set,
		selector: selector,
		matches:  matches,
		backup:   backupService,
		clock:    clk,
		logger:   logger,
	}
}

// Listings fetches the tab through the offline selector and decorates every
// listing with its new, seen and favorite flags. Only live results feed the
// new-match diff and the favorite availability check. Personal-fit ranking
// applies when enabled and no explicit sort is chosen; it never hides a
// listing.
func (s *EngineService) Listings(ctx context.Context, state urlstate.State) (ListingsView, error) {
	speciesID, ok := models.SpeciesForTab(state.Tab)
	if !ok {
		return ListingsView{}, ErrUnknownTab
	}
	res, err := s.selector.List(ctx, state.Tab, speciesID)
	if err != nil {
		return ListingsView{}, err
	}

	view := ListingsView{
		Tab:       state.Tab,
		SpeciesID: speciesID,
		State:     res.State,
		Offline:   res.Offline,
		CachedAt:  res.CachedAt,
		Banner:    offline.ComputeBanner(s.stores.Sync, state.Tab, s.clock.Now()),
	}

	fresh := map[string]bool{}
	favorites := s.stores.Favorites.Read()
	if res.State == offline.Live {
		fresh = s.matches.Diff(res.Pets)
		view.Unavailable = stores.Unavailable(favorites, res.Pets)
	}
	view.NewMatches = len(fresh)

	seen := map[string]bool{}
	if s.stores.SeenEnabled.Get() {
		seen = s.stores.Seen.Keys()
	}
	favIDs := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		favIDs[f.ID] = true
	}

	var visible []models.Listing
	for _, l := range res.Pets {
		if matchesFilters(l, state.Filters, seen) {
			visible = append(visible, l)
		}
	}

	views := make([]ListingView, 0, len(visible))
	if s.stores.FitEnabled.Get() && state.Filters.SortBy == "" {
		view.Ranked = true
		for _, r := range scoring.Rank(visible, s.stores.Preferences.Read()) {
			score := r.Score
			views = append(views, s.decorate(r.Listing, fresh, seen, favIDs, &score))
		}
	} else {
		for _, l := range visible {
			views = append(views, s.decorate(l, fresh, seen, favIDs, nil))
		}
		sortListings(views, state.Filters.SortBy)
	}

	view.Total = len(views)
	view.Listings, view.Pages = paginate(views, state.Page)
	view.Page = min(max(state.Page, 1), view.Pages)
	return view, nil
}

func (s *EngineService) decorate(l models.Listing, fresh, seen, favorites map[string]bool, score *scoring.Breakdown) ListingView {
	key := newmatch.MatchKey(l.Species, l.ID)
	return ListingView{
		Listing:  l,
		New:      fresh[key],
		Seen:     seen[key],
		Favorite: favorites[l.ID],
		Score:    score,
	}
}

// Detail fetches one listing through the offline selector and marks it seen
// when seen tracking is enabled. tab is the active tab, or -1.
func (s *EngineService) Detail(ctx context.Context, tab int, id string) (offline.DetailResult, error) {
	res, err := s.selector.Detail(ctx, tab, id)
	if err != nil {
		return res, err
	}
	if s.stores.SeenEnabled.Get() {
		s.stores.Seen.Mark(res.Detail.ID, res.Detail.Species)
	}
	return res, nil
}

func (s *EngineService) Favorites() FavoritesView {
	return FavoritesView{
		Favorites:          s.stores.Favorites.Read(),
		DisclaimerAccepted: s.stores.Disclaimer.Get(),
	}
}

func (s *EngineService) AddFavorite(listing models.Listing) bool {
	return s.stores.Favorites.Add(listing)
}

func (s *EngineService) RemoveFavorite(id string) bool {
	return s.stores.Favorites.Remove(id)
}

func (s *EngineService) AcceptDisclaimer(accepted bool) {
	s.stores.Disclaimer.Set(accepted)
}

func (s *EngineService) Seen() SeenView {
	return SeenView{Enabled: s.stores.SeenEnabled.Get(), Seen: s.stores.Seen.Read()}
}

func (s *EngineService) MarkSeen(id, species string) bool {
	if !s.stores.SeenEnabled.Get() {
		return false
	}
	return s.stores.Seen.Mark(id, species)
}

func (s *EngineService) ClearSeen() bool {
	return s.stores.Seen.Clear()
}

func (s *EngineService) SetSeenEnabled(enabled bool) {
	s.stores.SeenEnabled.Set(enabled)
}

func (s *EngineService) Presets() []models.SearchPreset {
	return s.stores.Presets.List()
}

func (s *EngineService) SavePreset(name string, tab int, filters models.SearchFilters) (models.SearchPreset, error) {
	return s.stores.Presets.Save(name, tab, filters)
}

func (s *EngineService) DeletePreset(id string) error {
	return s.stores.Presets.Delete(id)
}

func (s *EngineService) Checklist(id string) models.AdoptionChecklist {
	return s.stores.Checklists.Get(id)
}

// UpdateChecklist validates every item before applying any of them.
func (s *EngineService) UpdateChecklist(id string, items map[string]bool, notes *string) (models.AdoptionChecklist, error) {
	for item := range items {
		if !models.IsChecklistItem(item) {
			return models.AdoptionChecklist{}, stores.ErrUnknownChecklistItem
		}
	}
	for item, done := range items {
		if _, err := s.stores.Checklists.SetItem(id, item, done); err != nil {
			return models.AdoptionChecklist{}, err
		}
	}
	if notes != nil {
		s.stores.Checklists.SetNotes(id, *notes)
	}
	return s.stores.Checklists.Get(id), nil
}

func (s *EngineService) Preferences() PreferencesView {
	return PreferencesView{Enabled: s.stores.FitEnabled.Get(), Preferences: s.stores.Preferences.Read()}
}

func (s *EngineService) UpdatePreferences(prefs *models.FitPreferences, enabled *bool) PreferencesView {
	if prefs != nil {
		s.stores.Preferences.Write(*prefs)
	}
	if enabled != nil {
		s.stores.FitEnabled.Set(*enabled)
	}
	return s.Preferences()
}

// ClearNewMatches rebaselines the chosen species from the tab's cached
// listings without fetching.
func (s *EngineService) ClearNewMatches(tab int, species []string) error {
	if !models.ValidTab(int64(tab)) {
		return ErrUnknownTab
	}
	entry, ok := s.stores.Lists.Get(tab)
	if !ok {
		return nil
	}
	s.matches.Clear(entry.Pets, species)
	return nil
}

func (s *EngineService) Export() backup.Payload {
	return s.backup.Export()
}

func (s *EngineService) Import(data []byte) (backup.Summary, error) {
	return s.backup.Import(data)
}
