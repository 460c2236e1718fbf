package jobs

import (
	"context"
	"log/slog"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// StatusCorrector forces one entity's live status back to its history.
type StatusCorrector interface {
	Handle(ctx context.Context, cmd commands.CorrectStatusCommand) (commands.CorrectStatusResult, error)
}

// SweepReport summarizes one pass over the entity store.
type SweepReport struct {
	Checked   int
	Corrected int
	Failed    int
}

// ConsistencySweepJob periodically walks every vehicle, driver and trip and
// corrects drift between the live status and the newest history record.
type ConsistencySweepJob struct {
	store     ports.EntityStore
	corrector StatusCorrector
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewConsistencySweepJob(
	store ports.EntityStore,
	corrector StatusCorrector,
	schedule string,
	logger *slog.Logger,
) *ConsistencySweepJob {
	return &ConsistencySweepJob{
		store:     store,
		corrector: corrector,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "consistency_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *ConsistencySweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		report := j.Sweep(ctx)
		if report.Corrected > 0 || report.Failed > 0 {
			j.logger.WarnContext(ctx, "Consistency sweep found drift",
				"checked", report.Checked,
				"corrected", report.Corrected,
				"failed", report.Failed)
			return
		}
		j.logger.DebugContext(ctx, "Consistency sweep finished", "checked", report.Checked)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Consistency sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *ConsistencySweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Consistency sweep job stopped")
}

// Sweep runs one pass. Entities that cannot be loaded or corrected are
// counted as failed and logged; the pass carries on with the rest.
func (j *ConsistencySweepJob) Sweep(ctx context.Context) SweepReport {
	var report SweepReport

	for _, entityType := range kernel.EntityTypes() {
		ids, err := j.ids(ctx, entityType)
		if err != nil {
			j.logger.ErrorContext(ctx, "Consistency sweep could not list entities",
				"entityType", entityType.String(), "error", err)
			report.Failed++
			continue
		}

		for _, id := range ids {
			report.Checked++
			j.correct(ctx, entityType, id, &report)
		}
	}

	return report
}

func (j *ConsistencySweepJob) correct(ctx context.Context, entityType kernel.EntityType, id kernel.UUID, report *SweepReport) {
	cmd, err := commands.NewCorrectStatusCommand(entityType, id)
	if err == nil {
		var res commands.CorrectStatusResult
		res, err = j.corrector.Handle(ctx, cmd)
		if err == nil {
			if res.Corrected {
				report.Corrected++
			}
			return
		}
	}

	report.Failed++
	j.logger.ErrorContext(ctx, "Consistency sweep could not correct entity",
		"entityType", entityType.String(),
		"entityId", id.String(),
		"error", err)
}

func (j *ConsistencySweepJob) ids(ctx context.Context, entityType kernel.EntityType) ([]kernel.UUID, error) {
	switch entityType {
	case kernel.EntityTypeVehicle:
		all, err := j.store.VehicleRepository().GetAll(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]kernel.UUID, 0, len(all))
		for _, v := range all {
			ids = append(ids, v.ID())
		}
		return ids, nil
	case kernel.EntityTypeDriver:
		all, err := j.store.DriverRepository().GetAll(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]kernel.UUID, 0, len(all))
		for _, d := range all {
			ids = append(ids, d.ID())
		}
		return ids, nil
	case kernel.EntityTypeTrip:
		all, err := j.store.TripRepository().GetAll(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]kernel.UUID, 0, len(all))
		for _, t := range all {
			ids = append(ids, t.ID())
		}
		return ids, nil
	default:
		return nil, entityType.Validate()
	}
}
