// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/expense-tracker/pkg/storage"
)

// ArchivePruneSpec runs the archive prune daily at 03:00.
const ArchivePruneSpec = "0 3 * * *"

// Pruner deletes archived files older than a cutoff.
type Pruner interface {
	PruneOlderThan(ctx context.Context, namespace string, cutoff time.Time) (int, error)
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	archive   Pruner
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler that prunes import archives older than retentionDays.
func NewScheduler(archive Pruner, retentionDays int, logger *slog.Logger) *Scheduler {
	// Standard 5-field format, seconds disabled
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		archive:   archive,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ArchivePruneSpec, s.pruneArchives); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers the archive prune synchronously.
func (s *Scheduler) RunNow() {
	s.pruneArchives()
}

func (s *Scheduler) pruneArchives() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	removed, err := s.archive.PruneOlderThan(ctx, storage.ImportsNamespace, cutoff)
	if err != nil {
		s.logger.Error("failed to prune import archives",
			slog.Int("removed", removed),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("import archives pruned",
		slog.Int("removed", removed),
		slog.Time("cutoff", cutoff),
	)
}
