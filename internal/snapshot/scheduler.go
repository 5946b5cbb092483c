package snapshot

import (
	"sync"
	"time"

	"adoptwatch/internal/providers"
	"adoptwatch/internal/snapshot/interfaces"
	"adoptwatch/internal/storage"
	"adoptwatch/internal/structures"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval*time.Second), func() {
		if _, err := s.save(false); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

// Persist writes the snapshot regardless of the dirty flag.
func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	_, err := s.save(true)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
	}
	return err
}

// save writes the snapshot when forced or when the store changed since the
// last save. A failed save marks the store dirty again.
func (s *Scheduler) save(force bool) (bool, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	source := s.fileManager.source
	if !source.TakeDirty() && !force {
		return false, nil
	}
	start := time.Now()
	if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
		source.MarkDirty()
		return false, err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	return true, nil
}

// noopScheduler serves backends that persist on their own.
type noopScheduler struct{}

func (noopScheduler) Init()          {}
func (noopScheduler) Stop()          {}
func (noopScheduler) Restore() error { return nil }
func (noopScheduler) Persist() error { return nil }

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	if !fileManager.Enabled() {
		return noopScheduler{}
	}
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
	}
}

// SourceFromBackend returns the memory store to snapshot, or nil when the
// backend persists itself.
func SourceFromBackend(backend *storage.Backend) interfaces.SourceInterface {
	if backend.Memory == nil {
		return nil
	}
	return backend.Memory
}
