package di

import (
	"adoptwatch/internal/backup"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/stores"
	"adoptwatch/internal/structures"

	"github.com/benbjohnson/clock"
)

func provideClock() clock.Clock {
	return clock.New()
}

func provideKeyValueStore(backend *storage.Backend) storage.KeyValueStore {
	return backend.KV
}

func provideBackup(set *stores.Set, clk clock.Clock, conf *structures.Config, logger providers.Logger) *backup.Service {
	return backup.NewService(set, clk, conf.AppVersion, logger)
}
