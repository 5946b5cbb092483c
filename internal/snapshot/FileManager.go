package snapshot

import (
	"errors"
	"fmt"
	"os"

	"adoptwatch/internal/providers"
	"adoptwatch/internal/snapshot/interfaces"

	json "github.com/goccy/go-json"
)

const fileVersion = 1

var ErrUnsupportedFile = errors.New("unsupported snapshot file")

// file is the on-disk layout. Values are kept as strings so the stored JSON
// stays readable after decompression.
type file struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

type FileManager struct {
	source     interfaces.SourceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, source interfaces.SourceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		source:     source,
		logger:     logger,
	}
}

// Enabled reports whether there is a store to snapshot.
func (f *FileManager) Enabled() bool {
	return f.source != nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	snap := f.source.Snapshot()
	out := file{Version: fileVersion, Entries: make(map[string]string, len(snap))}
	for k, v := range snap {
		out.Entries[k] = string(v)
	}

	jsonData, err := json.Marshal(out)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	fh, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = fh.Write(data); err != nil {
		fh.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = fh.Sync(); err != nil {
		fh.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = fh.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile replaces the store contents with the snapshot in fileName. A
// missing file leaves the store untouched.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeStorage, "Snapshot %s is not compressed, reading as plain JSON", fileName)
		decompressed = data
	}

	var in file
	if err := json.Unmarshal(decompressed, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if in.Version > fileVersion || in.Entries == nil {
		return fmt.Errorf("%w: version %d", ErrUnsupportedFile, in.Version)
	}

	entries := make(map[string][]byte, len(in.Entries))
	for k, v := range in.Entries {
		entries[k] = []byte(v)
	}
	f.source.Restore(entries)
	f.logger.Infof(providers.TypeStorage, "Restored %d keys from %s", len(entries), fileName)
	return nil
}
