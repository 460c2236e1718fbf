package commands

import (
	"context"
	"errors"
	"log/slog"

	"fleet/internal/core/application/entitystatus"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// CorrectStatusResult reports what a correction did.
// On a no-op PreviousStatus and CorrectedStatus both hold the live status.
type CorrectStatusResult struct {
	Corrected       bool
	PreviousStatus  string
	CorrectedStatus string
}

// CorrectStatusCommandHandler treats history as the source of truth: when
// the live status differs from the newest record it is overwritten with the
// record's status.
//
// The overwrite skips transition validation and writes no history of its
// own. It repairs drift left by a crash or a failed history append and is
// not a transition. An entity without history is left alone.
type CorrectStatusCommandHandler struct {
	store    ports.EntityStore
	history  ports.StatusHistoryRepository
	locker   Locker
	observer CorrectionObserver
	logger   *slog.Logger
}

// NewCorrectStatusCommandHandler creates the handler. observer may be nil.
func NewCorrectStatusCommandHandler(
	store ports.EntityStore,
	history ports.StatusHistoryRepository,
	locker Locker,
	observer CorrectionObserver,
	logger *slog.Logger,
) *CorrectStatusCommandHandler {
	return &CorrectStatusCommandHandler{
		store:    store,
		history:  history,
		locker:   locker,
		observer: observer,
		logger:   logger.With("component", "status-corrector"),
	}
}

func (h *CorrectStatusCommandHandler) Handle(ctx context.Context, cmd CorrectStatusCommand) (CorrectStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return CorrectStatusResult{}, err
	}

	unlock, err := h.locker.LockAll(ctx, cmd.EntityType().LockKey(cmd.EntityID()))
	if err != nil {
		return CorrectStatusResult{}, err
	}
	defer unlock()

	actual, err := entitystatus.Read(ctx, h.store, cmd.EntityType(), cmd.EntityID())
	if err != nil {
		return CorrectStatusResult{}, err
	}

	noop := CorrectStatusResult{PreviousStatus: actual, CorrectedStatus: actual}

	latest, err := h.history.Latest(ctx, cmd.EntityType(), cmd.EntityID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return noop, nil
	}
	if err != nil {
		return CorrectStatusResult{}, err
	}

	expected := latest.NewStatus()
	if expected == actual {
		return noop, nil
	}

	if err = entitystatus.Force(ctx, h.store, cmd.EntityType(), cmd.EntityID(), expected); err != nil {
		return CorrectStatusResult{}, err
	}

	h.logger.WarnContext(ctx, "status drift corrected",
		"entityType", cmd.EntityType().String(),
		"entityId", cmd.EntityID().String(),
		"previousStatus", actual,
		"correctedStatus", expected)

	if h.observer != nil {
		h.observer.ObserveCorrection(cmd.EntityType().String(), actual, expected)
	}

	return CorrectStatusResult{
		Corrected:       true,
		PreviousStatus:  actual,
		CorrectedStatus: expected,
	}, nil
}
