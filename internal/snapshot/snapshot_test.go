package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"
	"adoptwatch/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1,
		},
	}
}

func newFileManager(t *testing.T, store *storage.MemoryStore) *FileManager {
	t.Helper()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(comp.Close)
	return NewFileManager(comp, store, &testutil.MockLogger{})
}

func TestFileManager_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.dat")

	src := storage.NewMemoryStore(0)
	require.NoError(t, src.SetItem("adoptwatch/favorites", []byte(`[{"ID":"1","savedAt":5}]`)))
	require.NoError(t, src.SetItem("adoptwatch/seen-enabled", []byte(`true`)))
	require.NoError(t, newFileManager(t, src).SaveToFile(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	dst := storage.NewMemoryStore(0)
	require.NoError(t, newFileManager(t, dst).LoadFromFile(path))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.False(t, dst.IsDirty())
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	dst := storage.NewMemoryStore(0)
	require.NoError(t, dst.SetItem("k", []byte("v")))
	require.NoError(t, newFileManager(t, dst).LoadFromFile("/nonexistent/path/file.dat"))
	assert.Equal(t, 1, dst.Len())
}

func TestFileManager_LoadFromFile_PlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"entries":{"a":"[]"}}`), 0644))

	dst := storage.NewMemoryStore(0)
	logger := &testutil.MockLogger{}
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	fm := NewFileManager(comp, dst, logger)

	require.NoError(t, fm.LoadFromFile(path))
	v, err := dst.GetItem("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileManager_LoadFromFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"garbage":    "not json",
		"newer":      `{"version":99,"entries":{}}`,
		"no entries": `{"version":1}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.dat")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			dst := storage.NewMemoryStore(0)
			require.NoError(t, dst.SetItem("keep", []byte("1")))
			fm := NewFileManager(&testutil.MockCompressor{}, dst, &testutil.MockLogger{})

			assert.ErrorIs(t, fm.LoadFromFile(path), ErrUnsupportedFile)
			assert.Equal(t, 1, dst.Len())
		})
	}
}

func TestScheduler_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	src := storage.NewMemoryStore(0)
	require.NoError(t, src.SetItem("k", []byte(`"v"`)))
	metrics := testutil.NewMockMetrics()

	s := NewScheduler(testConfig(path), &testutil.MockLogger{}, newFileManager(t, src), metrics)
	require.NoError(t, s.Persist())
	assert.Equal(t, 1, metrics.Persists)
	assert.False(t, src.IsDirty())

	dst := storage.NewMemoryStore(0)
	s2 := NewScheduler(testConfig(path), &testutil.MockLogger{}, newFileManager(t, dst), metrics)
	require.NoError(t, s2.Restore())
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestScheduler_SkipsCleanStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.dat")
	src := storage.NewMemoryStore(0)
	metrics := testutil.NewMockMetrics()
	s := NewScheduler(testConfig(path), &testutil.MockLogger{}, newFileManager(t, src), metrics).(*Scheduler)

	saved, err := s.save(false)
	require.NoError(t, err)
	assert.False(t, saved)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, src.SetItem("k", []byte("1")))
	saved, err = s.save(false)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestScheduler_Persist_WriteErrorKeepsDirty(t *testing.T) {
	src := storage.NewMemoryStore(0)
	require.NoError(t, src.SetItem("k", []byte("1")))
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	fm := NewFileManager(comp, src, &testutil.MockLogger{})
	s := NewScheduler(testConfig(filepath.Join(t.TempDir(), "x.dat")), &testutil.MockLogger{}, fm, testutil.NewMockMetrics())

	assert.Error(t, s.Persist())
	assert.True(t, src.IsDirty())
}

func TestScheduler_BadgerBackendIsNoop(t *testing.T) {
	backend := &storage.Backend{}
	fm := NewFileManager(&testutil.MockCompressor{}, SourceFromBackend(backend), &testutil.MockLogger{})
	s := NewScheduler(testConfig("/nonexistent/x.dat"), &testutil.MockLogger{}, fm, testutil.NewMockMetrics())

	assert.IsType(t, noopScheduler{}, s)
	assert.NoError(t, s.Restore())
	assert.NoError(t, s.Persist())
}

func TestScheduler_InitAndStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.dat")
	s := NewScheduler(testConfig(path), &testutil.MockLogger{}, newFileManager(t, storage.NewMemoryStore(0)), testutil.NewMockMetrics())
	s.Stop()
	s.Init()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
