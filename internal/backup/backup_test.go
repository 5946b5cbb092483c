package backup

import (
	"fmt"
	"testing"
	"time"

	"adoptwatch/internal/models"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/stores"
	"adoptwatch/internal/structures"
	"adoptwatch/internal/testutil"

	"github.com/benbjohnson/clock"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	kv    *storage.MemoryStore
	clock *clock.Mock
	set   *stores.Set
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := storage.NewMemoryStore(0)
	clk := clock.NewMock()
	clk.Set(epoch)
	logger := &testutil.MockLogger{}
	set := stores.New(kv, &structures.Config{}, clk, logger, testutil.NewMockMetrics())
	return &fixture{kv: kv, clock: clk, set: set, svc: NewService(set, clk, "1.4.0", logger)}
}

func seed(t *testing.T, f *fixture) {
	t.Helper()
	require.True(t, f.set.Favorites.Add(models.Listing{ID: "1", Name: "Rex", Species: "Dog"}))
	require.True(t, f.set.Seen.Mark("2", "Cat"))
	f.set.SeenEnabled.Set(false)
	f.set.Disclaimer.Set(true)
	_, err := f.set.Presets.Save("Dogs", 1, models.SearchFilters{Breeds: []string{"Lab"}})
	require.NoError(t, err)
	_, err = f.set.Checklists.SetItem("1", "home-visit", true)
	require.NoError(t, err)
	require.True(t, f.set.Sync.Record(1))
	require.True(t, f.set.Lists.Put(1, 1, []models.Listing{{ID: "1", Species: "Dog"}}))
	f.set.Preferences.Write(models.FitPreferences{AgePreference: 80, StagePriority: 20})
	f.set.FitEnabled.Set(true)
}

func TestExport_Envelope(t *testing.T) {
	f := newFixture(t)
	seed(t, f)
	p := f.svc.Export()
	assert.Equal(t, Schema, p.Schema)
	assert.Equal(t, Version, p.Version)
	assert.Equal(t, "2024-05-01T12:00:00Z", p.ExportedAt)
	assert.Equal(t, "1.4.0", p.AppVersion)
	assert.Len(t, p.Data.Favorites, 1)
	assert.False(t, p.Data.SeenEnabled)
	assert.True(t, p.Data.FavoritesDisclaimerAccepted)
	assert.Contains(t, p.Data.SyncTimestamps, "1")
	assert.Contains(t, p.Data.OfflineListCache, "1")
}

func TestImport_RoundTrip(t *testing.T) {
	src := newFixture(t)
	seed(t, src)
	data, err := json.Marshal(src.svc.Export())
	require.NoError(t, err)

	dst := newFixture(t)
	summary, err := dst.svc.Import(data)
	require.NoError(t, err)
	assert.Equal(t, 1, summary[FieldFavorites])
	assert.Equal(t, 1, summary[FieldSearchPresets])

	assert.Equal(t, src.set.Favorites.Read(), dst.set.Favorites.Read())
	assert.Equal(t, src.set.Seen.Read(), dst.set.Seen.Read())
	assert.Equal(t, src.set.Presets.List(), dst.set.Presets.List())
	assert.Equal(t, src.set.Checklists.Read(), dst.set.Checklists.Read())
	assert.Equal(t, src.set.Sync.Read(), dst.set.Sync.Read())
	assert.Equal(t, src.set.Lists.Read(), dst.set.Lists.Read())
	assert.Equal(t, src.set.Preferences.Read(), dst.set.Preferences.Read())
	assert.False(t, dst.set.SeenEnabled.Get())
	assert.True(t, dst.set.Disclaimer.Get())
	assert.True(t, dst.set.FitEnabled.Get())
}

func TestImport_RejectsNewerVersionWithoutWriting(t *testing.T) {
	f := newFixture(t)
	seed(t, f)
	before := f.kv.Snapshot()

	doc := fmt.Sprintf(`{"schema": %q, "version": %d, "data": {"favorites": [], "searchPresets": []}}`, Schema, Version+1)
	_, err := f.svc.Import([]byte(doc))
	assert.ErrorIs(t, err, ErrNewerVersion)
	assert.Contains(t, err.Error(), "newer app version")
	assert.Equal(t, before, f.kv.Snapshot())
}

func TestImport_RejectsInvalidJSON(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Import([]byte(`{"schema":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Contains(t, err.Error(), "not valid JSON")
	assert.Equal(t, 0, f.kv.Len())
}

func TestImport_RejectsUnrecognizedSchema(t *testing.T) {
	f := newFixture(t)
	for _, doc := range []string{
		`{"schema": "other-app", "version": 1, "data": {}}`,
		`{"schema": 7}`,
		`{"schema": "adoptwatch-backup", "version": "two"}`,
		`[1, 2]`,
	} {
		_, err := f.svc.Import([]byte(doc))
		assert.ErrorIs(t, err, ErrUnrecognizedSchema, doc)
	}
	assert.Equal(t, 0, f.kv.Len())
}

func TestImport_VersionedDocumentRequiresDataObject(t *testing.T) {
	f := newFixture(t)
	seed(t, f)
	before := f.kv.Snapshot()
	for _, doc := range []string{
		fmt.Sprintf(`{"schema": %q, "version": %d, "data": "oops"}`, Schema, Version),
		fmt.Sprintf(`{"schema": %q, "version": %d}`, Schema, Version),
		fmt.Sprintf(`{"schema": %q, "data": [1]}`, Schema),
		fmt.Sprintf(`{"version": %d, "favorites": []}`, Version),
	} {
		summary, err := f.svc.Import([]byte(doc))
		assert.ErrorIs(t, err, ErrUnrecognizedSchema, doc)
		assert.Nil(t, summary, doc)
	}
	assert.Equal(t, before, f.kv.Snapshot())
}

func TestImport_RejectsFractionalVersion(t *testing.T) {
	f := newFixture(t)
	for _, version := range []string{"1.5", "2.4", "2.6", `"2.4"`} {
		doc := fmt.Sprintf(`{"schema": %q, "version": %s, "data": {"favorites": []}}`, Schema, version)
		_, err := f.svc.Import([]byte(doc))
		assert.ErrorIs(t, err, ErrUnrecognizedSchema, version)
		assert.NotErrorIs(t, err, ErrNewerVersion, version)
	}
	assert.Equal(t, 0, f.kv.Len())

	_, err := f.svc.Import([]byte(fmt.Sprintf(`{"schema": %q, "version": "2", "data": {}}`, Schema)))
	assert.NoError(t, err)
}

func TestImport_PartialFailureKeepsValidPresets(t *testing.T) {
	f := newFixture(t)
	doc := fmt.Sprintf(`{"schema": %q, "version": 1, "data": {"searchPresets": [
		{"id": "a", "name": "Cats", "selectedTab": 2},
		{"id": "b", "name": 42},
		{"id": "c", "name": "Dogs", "filters": {"gender": "robot"}}
	]}}`, Schema)
	summary, err := f.svc.Import([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, summary[FieldSearchPresets])
	presets := f.set.Presets.List()
	require.Len(t, presets, 2)
	assert.Equal(t, "", presets[1].Filters.Gender)
}

func TestImport_AppliesExpiry(t *testing.T) {
	f := newFixture(t)
	doc := fmt.Sprintf(`{"favorites": [
		{"ID": "old", "savedAt": %d},
		{"ID": "new", "savedAt": %d}
	], "seenPets": [{"id": "x", "species": "dog", "timestamp": %d}]}`,
		epoch.Add(-8*24*time.Hour).UnixMilli(), epoch.Add(-time.Hour).UnixMilli(), epoch.Add(-31*24*time.Hour).UnixMilli())

	summary, err := f.svc.Import([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, summary[FieldFavorites])
	assert.Equal(t, 0, summary[FieldSeenPets])
	favs := f.set.Favorites.Read()
	require.Len(t, favs, 1)
	assert.Equal(t, "new", favs[0].ID)
}

func TestImport_MalformedCollectionBecomesEmpty(t *testing.T) {
	f := newFixture(t)
	seed(t, f)
	summary, err := f.svc.Import([]byte(`{"data": {"favorites": "garbage", "adoptionChecklists": [1]}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, summary[FieldFavorites])
	assert.Empty(t, f.set.Favorites.Read())
	assert.Empty(t, f.set.Checklists.Read())

	// absent collections are untouched
	assert.Len(t, f.set.Presets.List(), 1)
	assert.Len(t, f.set.Seen.Read(), 1)
	assert.NotContains(t, summary, FieldSearchPresets)
}

func TestImport_LegacyTopLevelPayload(t *testing.T) {
	f := newFixture(t)
	summary, err := f.svc.Import([]byte(`{"seenEnabled": false, "favoritesDisclaimerAccepted": true, "adoptionChecklists": {"9": {"items": {"home-visit": true}}}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, summary[FieldChecklists])
	assert.False(t, f.set.SeenEnabled.Get())
	assert.True(t, f.set.Disclaimer.Get())
	assert.True(t, f.set.Checklists.Get("9").Items["home-visit"])
}
