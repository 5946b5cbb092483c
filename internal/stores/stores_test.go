package stores

import (
	"fmt"
	"testing"
	"time"

	"adoptwatch/internal/models"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"
	"adoptwatch/internal/testutil"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	kv      *storage.MemoryStore
	clock   *clock.Mock
	metrics *testutil.MockMetrics
	set     *Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := storage.NewMemoryStore(0)
	clk := clock.NewMock()
	clk.Set(epoch)
	metrics := testutil.NewMockMetrics()
	conf := &structures.Config{Offline: structures.OfflineConfig{MaxDetails: 2}}
	return &fixture{
		kv:      kv,
		clock:   clk,
		metrics: metrics,
		set:     New(kv, conf, clk, &testutil.MockLogger{}, metrics),
	}
}

func (f *fixture) put(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, f.kv.SetItem(key, []byte(value)))
}

func (f *fixture) raw(t *testing.T, key string) string {
	t.Helper()
	v, err := f.kv.GetItem(key)
	require.NoError(t, err)
	return string(v)
}

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestFavorites_ExpiryBoundary(t *testing.T) {
	f := newFixture(t)
	now := epoch
	f.put(t, KeyFavorites, fmt.Sprintf(`[
		{"ID": "fresh", "savedAt": %d},
		{"ID": "stale", "savedAt": %d}
	]`, ms(now.Add(-7*24*time.Hour+time.Millisecond)), ms(now.Add(-7*24*time.Hour-time.Millisecond))))

	list := f.set.Favorites.Read()
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].ID)
	assert.Equal(t, 1, f.metrics.Expired[KeyFavorites])
}

func TestFavorites_ExactlyTTLExpires(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyFavorites, fmt.Sprintf(`[{"ID": "1", "savedAt": %d}]`, ms(epoch.Add(-7*24*time.Hour))))
	assert.Empty(t, f.set.Favorites.Read())
}

func TestFavorites_ReadRenewsSurvivors(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyFavorites, fmt.Sprintf(`[{"ID": "1", "Name": "Rex", "savedAt": %d}]`, ms(epoch.Add(-6*24*time.Hour))))

	list := f.set.Favorites.Read()
	require.Len(t, list, 1)
	assert.Equal(t, ms(epoch), list[0].SavedAt)

	// renewal was persisted: six more days later the favorite is still alive
	f.clock.Add(6 * 24 * time.Hour)
	list = f.set.Favorites.Read()
	require.Len(t, list, 1)
	assert.Equal(t, "Rex", list[0].Name)
}

func TestFavorites_AddRemoveToggle(t *testing.T) {
	f := newFixture(t)
	fav := f.set.Favorites
	rex := models.Listing{ID: "1", Name: "Rex", Species: "Dog"}

	assert.True(t, fav.Add(rex))
	assert.True(t, fav.Has("1"))
	rex.Name = "Rexy"
	assert.True(t, fav.Add(rex))
	list := fav.Read()
	require.Len(t, list, 1)
	assert.Equal(t, "Rexy", list[0].Name)

	assert.False(t, fav.Toggle(rex))
	assert.False(t, fav.Has("1"))
	assert.True(t, fav.Toggle(rex))
	assert.True(t, fav.Remove("1"))
	assert.False(t, fav.Remove("1"))
}

func TestFavorites_CorruptSiblingsDropped(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyFavorites, fmt.Sprintf(`[{"ID": "1", "savedAt": %d}, {"savedAt": 5}, "junk", {"ID": "1", "savedAt": %d}]`, ms(epoch), ms(epoch)))
	list := f.set.Favorites.Read()
	assert.Len(t, list, 1)
	assert.Equal(t, 3, f.metrics.Dropped[KeyFavorites])
}

func TestFavorites_MalformedJSONReadsEmpty(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyFavorites, `[{"ID":`)
	assert.Empty(t, f.set.Favorites.Read())
	assert.True(t, f.set.Favorites.Add(models.Listing{ID: "1"}))
	assert.Len(t, f.set.Favorites.Read(), 1)
}

func TestFavorites_StorageFailureIsContained(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	clk := clock.NewMock()
	clk.Set(epoch)
	set := New(&testutil.FailingStore{}, &structures.Config{}, clk, &testutil.MockLogger{}, metrics)

	assert.False(t, set.Favorites.Add(models.Listing{ID: "1"}))
	assert.Empty(t, set.Favorites.Read())
	assert.Equal(t, 1, metrics.WriteFailures[KeyFavorites])
	assert.True(t, set.SeenEnabled.Get())
}

func TestUnavailable(t *testing.T) {
	favs := []models.FavoriteRecord{
		{Listing: models.Listing{ID: "1", Species: "Dog"}},
		{Listing: models.Listing{ID: "2", Species: "dog"}},
		{Listing: models.Listing{ID: "3", Species: "Cat"}},
	}
	fetched := []models.Listing{{ID: "1", Species: "Dog"}, {ID: "9", Species: "Dog"}}
	assert.Equal(t, []string{"2"}, Unavailable(favs, fetched))
}

func TestSeen_NotRenewed(t *testing.T) {
	f := newFixture(t)
	old := ms(epoch.Add(-10 * 24 * time.Hour))
	f.put(t, KeySeenPets, fmt.Sprintf(`[{"id": "1", "species": "dog", "timestamp": %d}]`, old))

	list := f.set.Seen.Read()
	require.Len(t, list, 1)
	assert.Equal(t, old, list[0].Timestamp)

	f.clock.Add(20 * 24 * time.Hour)
	assert.Empty(t, f.set.Seen.Read())
	assert.Equal(t, 1, f.metrics.Expired[KeySeenPets])
}

func TestSeen_DuplicatesCollapse(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeySeenPets, fmt.Sprintf(`[
		{"id": "1", "species": "Dog", "timestamp": %d},
		{"id": "1", "species": "dog ", "timestamp": %d},
		{"id": "1", "species": "cat", "timestamp": %d}
	]`, ms(epoch)-10, ms(epoch)-5, ms(epoch)))

	list := f.set.Seen.Read()
	require.Len(t, list, 2)
	assert.Equal(t, ms(epoch)-5, list[0].Timestamp)
}

func TestSeen_MarkRefreshesPair(t *testing.T) {
	f := newFixture(t)
	seen := f.set.Seen
	assert.True(t, seen.Mark("1", "Dog"))
	f.clock.Add(time.Hour)
	assert.True(t, seen.Mark("1", "dog"))

	list := seen.Read()
	require.Len(t, list, 1)
	assert.Equal(t, ms(epoch.Add(time.Hour)), list[0].Timestamp)
	assert.True(t, seen.Has("1", " DOG"))
	assert.False(t, seen.Has("1", "cat"))

	assert.True(t, seen.Clear())
	assert.Empty(t, seen.Read())
}

func TestFlags(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.set.SeenEnabled.Get())
	f.set.SeenEnabled.Set(false)
	assert.False(t, f.set.SeenEnabled.Get())
	assert.Equal(t, "false", f.raw(t, KeySeenEnabled))

	assert.False(t, f.set.FitEnabled.Get())

	assert.False(t, f.set.Disclaimer.Get())
	f.set.Disclaimer.Set(true)
	assert.Equal(t, "true", f.raw(t, KeyFavoritesDisclaimer))
	f.set.Disclaimer.Set(false)
	_, err := f.kv.GetItem(KeyFavoritesDisclaimer)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	f.put(t, KeySeenEnabled, `"maybe"`)
	assert.True(t, f.set.SeenEnabled.Get())
}

func TestSyncTimestamps(t *testing.T) {
	f := newFixture(t)
	sync := f.set.Sync
	assert.False(t, sync.IsStale(0))
	assert.False(t, sync.Record(6))

	assert.True(t, sync.Record(2))
	got, ok := sync.Get(2)
	require.True(t, ok)
	assert.Equal(t, ms(epoch), got.UnixMilli())
	assert.JSONEq(t, fmt.Sprintf(`{"2": %d}`, ms(epoch)), f.raw(t, KeySyncTimestamps))

	f.clock.Add(15 * time.Minute)
	assert.False(t, sync.IsStale(2))
	f.clock.Add(time.Millisecond)
	assert.True(t, sync.IsStale(2))
}

func TestSnapshots_UpdateAndRead(t *testing.T) {
	f := newFixture(t)
	snaps := f.set.Snapshots
	assert.Empty(t, snaps.Read())
	snaps.Update(func(s models.NewMatchSnapshots) models.NewMatchSnapshots {
		s["dog"] = models.NewMatchSnapshot{IDs: []string{"1", "1", "2"}, UpdatedAt: 5}
		return s
	})
	assert.Equal(t, []string{"1", "2"}, snaps.Read()["dog"].IDs)
}

func TestPresets_Save(t *testing.T) {
	f := newFixture(t)
	presets := f.set.Presets

	p, err := presets.Save("  Small dogs ", 9, models.SearchFilters{Gender: "other", SortBy: models.SortAge, AgeMin: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Small dogs", p.Name)
	assert.Equal(t, 0, p.SelectedTab)
	assert.Equal(t, "", p.Filters.Gender)
	assert.Equal(t, "", p.Filters.AgeMin)
	assert.Equal(t, models.SortAge, p.Filters.SortBy)
	assert.Equal(t, ms(epoch), p.CreatedAt)

	_, err = presets.Save("SMALL DOGS", 1, models.SearchFilters{})
	assert.ErrorIs(t, err, ErrPresetNameTaken)
	_, err = presets.Save("   ", 1, models.SearchFilters{})
	assert.ErrorIs(t, err, ErrPresetNameRequired)

	got, ok := presets.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)

	require.NoError(t, presets.Delete(p.ID))
	assert.ErrorIs(t, presets.Delete(p.ID), ErrPresetNotFound)
	assert.Empty(t, presets.List())
}

func TestChecklists(t *testing.T) {
	f := newFixture(t)
	lists := f.set.Checklists

	empty := lists.Get("1")
	assert.Len(t, empty.Items, len(models.ChecklistItems))

	c, err := lists.SetItem("1", "home-visit", true)
	require.NoError(t, err)
	assert.True(t, c.Items["home-visit"])
	_, err = lists.SetItem("1", "bogus", true)
	assert.ErrorIs(t, err, ErrUnknownChecklistItem)

	long := make([]rune, 1200)
	for i := range long {
		long[i] = 'é'
	}
	c = lists.SetNotes("1", string(long))
	assert.Equal(t, models.MaxChecklistNotes, len([]rune(c.Notes)))
	assert.True(t, lists.Get("1").Items["home-visit"])

	assert.True(t, lists.Clear("1"))
	assert.False(t, lists.Clear("1"))
	assert.False(t, lists.Get("1").Items["home-visit"])
}

func TestChecklists_CorruptEntryKeepsSiblings(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyAdoptionChecklists, `{"1": {"items": {"home-visit": true}}, "2": 42, "3": {"notes": "hi", "items": {"nope": true}}}`)
	lists := f.set.Checklists.Read()
	assert.Len(t, lists, 2)
	assert.True(t, lists["1"].Items["home-visit"])
	assert.Equal(t, "hi", lists["3"].Notes)
	assert.Equal(t, 1, f.metrics.Dropped[KeyAdoptionChecklists])
}

func TestListCache_PutOverwritesTab(t *testing.T) {
	f := newFixture(t)
	cache := f.set.Lists
	assert.True(t, cache.Put(1, 3, []models.Listing{{ID: "a"}}))
	f.clock.Add(time.Minute)
	assert.True(t, cache.Put(1, 3, []models.Listing{{ID: "b"}}))
	assert.False(t, cache.Put(1, -1, nil))

	e, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, 3, e.SpeciesID)
	assert.Equal(t, ms(epoch.Add(time.Minute)), e.Timestamp)
	require.Len(t, e.Pets, 1)
	assert.Equal(t, "b", e.Pets[0].ID)
}

func TestListCache_MalformedPetDropped(t *testing.T) {
	f := newFixture(t)
	f.put(t, KeyOfflineListCache, `{"0": {"timestamp": 1, "speciesId": 1, "pets": [{"ID": "1"}, {"bad": true}]}, "1": {"pets": []}}`)
	cache := f.set.Lists.Read()
	require.Len(t, cache, 1)
	assert.Len(t, cache[0].Pets, 1)
}

func TestDetailCache_BoundedToNewest(t *testing.T) {
	f := newFixture(t)
	cache := f.set.Details
	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, cache.Put(models.Detail{ID: id, Name: id, Photos: []string{}}))
		f.clock.Add(time.Second)
	}
	entries := cache.Read()
	assert.Len(t, entries, 2)
	assert.NotContains(t, entries, "a")

	e, ok := cache.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", e.Details.Name)
}

func TestPreferences(t *testing.T) {
	f := newFixture(t)
	prefs := f.set.Preferences
	assert.Equal(t, models.DefaultPreferences(), prefs.Read())

	stored := prefs.Write(models.FitPreferences{AgePreference: 150, StagePriority: -4, SpecialNeedsPriority: 30})
	assert.Equal(t, models.FitPreferences{AgePreference: 100, StagePriority: 0, SpecialNeedsPriority: 30}, stored)
	assert.Equal(t, stored, prefs.Read())

	f.put(t, KeyFitPreferences, `{"agePreference": "abc", "stagePriority": 55.5}`)
	assert.Equal(t, models.FitPreferences{AgePreference: 50, StagePriority: 56}, prefs.Read())
}
