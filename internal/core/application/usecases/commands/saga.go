package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
)

// sagaStep is one single-entity transition inside a compound operation.
type sagaStep struct {
	name       string
	entityType kernel.EntityType
	entityID   kernel.UUID

	// apply mutates the entity store. A failure here means nothing of this
	// step landed.
	apply func(ctx context.Context) error

	// record appends history for the applied mutation. May be nil when the
	// step only adjusts counters and leaves the status alone.
	record func(ctx context.Context) error

	// compensate applies and records the inverse transition.
	compensate func(ctx context.Context, reason string) error
}

// saga runs steps in order.
//
// When a step's apply fails, the steps that already committed are undone in
// reverse order and the caller gets *errs.SagaAbortedError. When a step's
// record fails the mutation has landed, so the saga stops where it is and
// returns the recorder's *errs.PartialFailureError. If a compensation fails,
// the result is *errs.PartialFailureError with step "compensation".
type saga struct {
	operation string
	steps     []sagaStep
	logger    *slog.Logger
}

func newSaga(operation string, logger *slog.Logger) *saga {
	return &saga{
		operation: operation,
		logger:    logger.With("operation", operation),
	}
}

func (s *saga) add(step sagaStep) {
	s.steps = append(s.steps, step)
}

func (s *saga) run(ctx context.Context) error {
	committed := make([]sagaStep, 0, len(s.steps))

	for _, step := range s.steps {
		if err := step.apply(ctx); err != nil {
			return s.abort(ctx, step.name, err, committed)
		}
		if step.record != nil {
			if err := step.record(ctx); err != nil {
				return err
			}
		}
		committed = append(committed, step)
	}

	return nil
}

func (s *saga) abort(ctx context.Context, failedStep string, cause error, committed []sagaStep) error {
	// The caller's context may be the reason we are here.
	ctx = context.WithoutCancel(ctx)
	reason := fmt.Sprintf("compensation: %s failed at %s", s.operation, failedStep)

	s.logger.WarnContext(ctx, "compound operation failed, compensating",
		"failedStep", failedStep,
		"committedSteps", len(committed),
		"error", cause)

	var failed *sagaStep
	compErrs := []error{cause}
	for _, step := range slices.Backward(committed) {
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx, reason); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				"step", step.name,
				"entityType", step.entityType.String(),
				"entityId", step.entityID.String(),
				"error", err)
			if failed == nil {
				failed = &step
			}
			compErrs = append(compErrs, err)
		}
	}

	if failed != nil {
		return errs.NewPartialFailureError(
			failed.entityType.String(),
			failed.entityID.String(),
			"compensation",
			errors.Join(compErrs...),
		)
	}

	return errs.NewSagaAbortedError(s.operation, failedStep, cause)
}
