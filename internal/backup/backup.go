// Package backup exports every store into one versioned document and merges
// such a document back through the same normalization live reads use.
package backup

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/stores"

	"github.com/benbjohnson/clock"
)

const (
	Schema  = "adoptwatch-backup"
	Version = 2
)

var (
	ErrInvalidJSON        = errors.New("backup file is not valid JSON")
	ErrUnrecognizedSchema = errors.New("backup file has an unrecognized schema")
	ErrNewerVersion       = errors.New("backup was created by a newer app version")
)

// Data keys. The first six are the user-facing collections; the rest carry
// caches and baselines so a restore reproduces every store.
const (
	FieldFavorites          = "favorites"
	FieldSeenPets           = "seenPets"
	FieldSeenEnabled        = "seenEnabled"
	FieldDisclaimerAccepted = "favoritesDisclaimerAccepted"
	FieldSearchPresets      = "searchPresets"
	FieldChecklists         = "adoptionChecklists"
	FieldSyncTimestamps     = "syncTimestamps"
	FieldSnapshots          = "newMatchSnapshots"
	FieldListCache          = "offlineListCache"
	FieldDetailCache        = "offlineDetailCache"
	FieldFitPreferences     = "personalFitPreferences"
	FieldFitEnabled         = "personalFitEnabled"
)

type Payload struct {
	Schema     string `json:"schema"`
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
	AppVersion string `json:"appVersion"`
	Data       Data   `json:"data"`
}

type Data struct {
	Favorites                   []models.FavoriteRecord           `json:"favorites"`
	SeenPets                    []models.SeenRecord               `json:"seenPets"`
	SeenEnabled                 bool                              `json:"seenEnabled"`
	FavoritesDisclaimerAccepted bool                              `json:"favoritesDisclaimerAccepted"`
	SearchPresets               []models.SearchPreset             `json:"searchPresets"`
	AdoptionChecklists          models.AdoptionChecklists         `json:"adoptionChecklists"`
	SyncTimestamps              map[string]int64                  `json:"syncTimestamps"`
	NewMatchSnapshots           models.NewMatchSnapshots          `json:"newMatchSnapshots"`
	OfflineListCache            map[string]models.CachedListEntry `json:"offlineListCache"`
	OfflineDetailCache          models.DetailCache                `json:"offlineDetailCache"`
	PersonalFitPreferences      models.FitPreferences             `json:"personalFitPreferences"`
	PersonalFitEnabled          bool                              `json:"personalFitEnabled"`
}

// Summary counts what an import stored, per data field. Fields absent from
// the document are not listed and their stores were left untouched.
type Summary map[string]int

type Service struct {
	stores     *stores.Set
	clock      clock.Clock
	appVersion string
	logger     providers.Logger
}

func NewService(set *stores.Set, clk clock.Clock, appVersion string, logger providers.Logger) *Service {
	return &Service{stores: set, clock: clk, appVersion: appVersion, logger: logger}
}

// Export reads every store through its normal read path.
func (s *Service) Export() Payload {
	set := s.stores
	sync := make(map[string]int64)
	for tab, ts := range set.Sync.Read() {
		sync[strconv.Itoa(tab)] = ts
	}
	lists := make(map[string]models.CachedListEntry)
	for tab, e := range set.Lists.Read() {
		lists[strconv.Itoa(tab)] = e
	}
	return Payload{
		Schema:     Schema,
		Version:    Version,
		ExportedAt: s.clock.Now().UTC().Format(time.RFC3339),
		AppVersion: s.appVersion,
		Data: Data{
			Favorites:                   set.Favorites.Read(),
			SeenPets:                    set.Seen.Read(),
			SeenEnabled:                 set.SeenEnabled.Get(),
			FavoritesDisclaimerAccepted: set.Disclaimer.Get(),
			SearchPresets:               set.Presets.List(),
			AdoptionChecklists:          set.Checklists.Read(),
			SyncTimestamps:              sync,
			NewMatchSnapshots:           set.Snapshots.Read(),
			OfflineListCache:            lists,
			OfflineDetailCache:          set.Details.Read(),
			PersonalFitPreferences:      set.Preferences.Read(),
			PersonalFitEnabled:          set.FitEnabled.Get(),
		},
	}
}

// Import validates a backup document and replaces every store it carries.
// A rejected document writes nothing. Within an accepted document a
// malformed collection restores as empty rather than failing the import.
func (s *Service) Import(data []byte) (Summary, error) {
	payload, err := locate(data)
	if err != nil {
		return nil, err
	}
	set := s.stores
	summary := Summary{}
	replace := func(field string, fn func(any) int) {
		if raw, ok := payload[field]; ok {
			summary[field] = fn(raw)
		}
	}
	flag := func(f *stores.Flag) func(any) int {
		return func(raw any) int {
			if f.Replace(raw) {
				return 1
			}
			return 0
		}
	}
	replace(FieldFavorites, set.Favorites.Replace)
	replace(FieldSeenPets, set.Seen.Replace)
	replace(FieldSeenEnabled, flag(set.SeenEnabled))
	replace(FieldDisclaimerAccepted, flag(set.Disclaimer))
	replace(FieldSearchPresets, set.Presets.Replace)
	replace(FieldChecklists, set.Checklists.Replace)
	replace(FieldSyncTimestamps, set.Sync.Replace)
	replace(FieldSnapshots, set.Snapshots.Replace)
	replace(FieldListCache, set.Lists.Replace)
	replace(FieldDetailCache, set.Details.Replace)
	replace(FieldFitPreferences, func(raw any) int {
		set.Preferences.Replace(raw)
		return 1
	})
	replace(FieldFitEnabled, flag(set.FitEnabled))

	s.logger.Infof(providers.TypeApp, "backup imported: %v", map[string]int(summary))
	return summary, nil
}

// locate validates the envelope and returns the data object. Only legacy
// documents, which carry neither schema nor version, are their own data
// object; a versioned document must nest its stores under data.
func locate(data []byte) (map[string]any, error) {
	raw, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	doc, ok := codec.Object(raw)
	if !ok {
		return nil, ErrUnrecognizedSchema
	}
	schema, hasSchema := doc["schema"]
	version, hasVersion := doc["version"]
	if !hasSchema && !hasVersion {
		return doc, nil
	}
	if hasSchema {
		if s, ok := schema.(string); !ok || s != Schema {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedSchema, schema)
		}
	}
	if hasVersion {
		v, ok := codec.Number(version)
		if !ok || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: version %v", ErrUnrecognizedSchema, version)
		}
		if v > Version {
			return nil, fmt.Errorf("%w (version %d, supported %d)", ErrNewerVersion, int64(v), Version)
		}
	}
	nested, ok := codec.Object(doc["data"])
	if !ok {
		return nil, fmt.Errorf("%w: data is missing or not an object", ErrUnrecognizedSchema)
	}
	return nested, nil
}
