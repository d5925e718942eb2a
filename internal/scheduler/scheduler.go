package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TrendBoard/internal/model"
)

// Purger drops stale cache entries.
type Purger interface {
	PurgeStale(ctx context.Context) (int, error)
}

// DirectoryLister refreshes the symbol directory.
type DirectoryLister interface {
	ListSymbols(ctx context.Context) model.Directory
}

// Scheduler runs optional cache maintenance on cron expressions.
type Scheduler struct {
	Cron      *cron.Cron
	Purgers   map[string]Purger
	Directory DirectoryLister
	Ctx       context.Context
	logger    *zap.Logger
}

// NewScheduler creates a new Scheduler. Expressions carry a seconds field.
func NewScheduler(ctx context.Context, purgers map[string]Purger, dir DirectoryLister, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Purgers:   purgers,
		Directory: dir,
		Ctx:       ctx,
		logger:    logger,
	}
}

// RegisterAll registers the purge and directory warm-up jobs. An empty
// expression leaves that job disabled.
func (s *Scheduler) RegisterAll(purgeCron, directoryCron string) error {
	if purgeCron != "" {
		if _, err := s.Cron.AddFunc(purgeCron, s.RunPurgeNow); err != nil {
			return fmt.Errorf("register purge task: %w", err)
		}
	}
	if directoryCron != "" && s.Directory != nil {
		if _, err := s.Cron.AddFunc(directoryCron, s.RunDirectoryNow); err != nil {
			return fmt.Errorf("register directory task: %w", err)
		}
	}
	return nil
}

// Jobs reports how many tasks are registered.
func (s *Scheduler) Jobs() int {
	return len(s.Cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", s.Jobs()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunPurgeNow purges every registered cache immediately.
func (s *Scheduler) RunPurgeNow() {
	for name, p := range s.Purgers {
		n, err := p.PurgeStale(s.Ctx)
		if err != nil {
			s.logger.Error("cache purge failed", zap.String("cache", name), zap.Error(err))
			continue
		}
		s.logger.Info("cache purged", zap.String("cache", name), zap.Int("removed", n))
	}
}

// RunDirectoryNow refreshes the symbol directory cache immediately.
func (s *Scheduler) RunDirectoryNow() {
	dir := s.Directory.ListSymbols(s.Ctx)
	if dir.Fallback {
		s.logger.Warn("directory warm-up served fallback list", zap.Error(dir.Warning))
		return
	}
	s.logger.Info("directory warmed", zap.Int("symbols", len(dir.Entries)))
}
