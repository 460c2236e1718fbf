package jobs

import (
	"context"
	"log/slog"
	"time"

	"fleet/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// PurgeObserver is told how many records each purge removed.
type PurgeObserver interface {
	ObservePurge(n int64)
}

// HistoryRetentionJob deletes history records older than the retention period.
type HistoryRetentionJob struct {
	history   ports.StatusHistoryRepository
	clock     ports.Clock
	retention time.Duration
	observer  PurgeObserver
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewHistoryRetentionJob creates the job. observer may be nil.
func NewHistoryRetentionJob(
	history ports.StatusHistoryRepository,
	clock ports.Clock,
	retention time.Duration,
	observer PurgeObserver,
	schedule string,
	logger *slog.Logger,
) *HistoryRetentionJob {
	return &HistoryRetentionJob{
		history:   history,
		clock:     clock,
		retention: retention,
		observer:  observer,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "history_retention_job"),
	}
}

func (j *HistoryRetentionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Purge(ctx); err != nil {
			j.logger.ErrorContext(ctx, "History retention job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "History retention job started",
		"schedule", j.schedule,
		"retention", j.retention.String())
	return nil
}

func (j *HistoryRetentionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "History retention job stopped")
}

// Purge removes every record created before now minus the retention period.
func (j *HistoryRetentionJob) Purge(ctx context.Context) (int64, error) {
	cutoff := j.clock.Now().Add(-j.retention)

	n, err := j.history.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if j.observer != nil {
		j.observer.ObservePurge(n)
	}
	j.logger.InfoContext(ctx, "History purged", "cutoff", cutoff, "records", n)
	return n, nil
}
