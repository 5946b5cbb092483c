package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"adoptwatch/internal/controllers"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/services"
	"adoptwatch/internal/snapshot/interfaces"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	Service   services.EngineServiceInterface

	scheduler interfaces.SchedulerInterface
	backend   *storage.Backend
	conf      *structures.Config
	logger    providers.Logger
}

// NewApp assembles the HTTP server and restores the persisted store. It does
// not start listening; see Run.
func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, service services.EngineServiceInterface, scheduler interfaces.SchedulerInterface, backend *storage.Backend, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, apiMux))

	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Service:   service,
		scheduler: scheduler,
		backend:   backend,
		conf:      conf,
		logger:    logger,
	}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down and persists.
func (app *App) Run() error {
	app.logger.Infof(providers.TypeApp, "Starting %s %s", app.conf.AppName, app.conf.AppVersion)
	app.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	app.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		app.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

// Close persists the store and releases the backend. The CLI calls it
// directly after one-shot commands.
func (app *App) Close() error {
	err := app.scheduler.Persist()
	if cerr := app.backend.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
