//go:build wireinject
// +build wireinject

package di

import (
	"adoptwatch/internal"
	"adoptwatch/internal/controllers"
	"adoptwatch/internal/fetch"
	"adoptwatch/internal/newmatch"
	"adoptwatch/internal/offline"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/services"
	"adoptwatch/internal/snapshot"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/stores"
	"adoptwatch/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		provideClock,
		storage.Open,
		provideKeyValueStore,
		stores.New,

		fetch.NewClient,
		wire.Bind(new(fetch.Fetcher), new(*fetch.Client)),
		offline.NewSelector,
		wire.FieldsOf(new(*stores.Set), "Snapshots"),
		newmatch.NewEngine,
		provideBackup,
		services.NewEngineService,
		wire.Bind(new(services.EngineServiceInterface), new(*services.EngineService)),

		snapshot.NewZstdCompressor,
		snapshot.SourceFromBackend,
		snapshot.NewFileManager,
		snapshot.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
