package commands_test

import (
	"slices"
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/services"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionDriverStatusCommandHandler_Handle(t *testing.T) {
	t.Run("duty changes are recorded", func(t *testing.T) {
		e := newEngine(t)
		d := e.addDriver(t)
		handler := e.driverHandler()

		for _, next := range []string{"off-duty", "suspended", "on-duty"} {
			cmd, err := commands.NewTransitionDriverStatusCommand(d.ID(), next, "roster")
			require.NoError(t, err)
			_, err = handler.Handle(t.Context(), cmd)
			require.NoError(t, err, next)
		}

		assert.Equal(t, driver.OnDuty, e.driver(t, d.ID()).Status())
		recs := e.records(t, kernel.EntityTypeDriver, d.ID())
		require.Len(t, recs, 3)
		assert.Equal(t, "suspended", recs[0].PreviousStatus())
		assert.Equal(t, "on-duty", recs[0].NewStatus())
	})

	t.Run("on-trip cannot be requested", func(t *testing.T) {
		e := newEngine(t)
		d := e.addDriver(t)
		cmd, err := commands.NewTransitionDriverStatusCommand(d.ID(), "on-trip", "")
		require.NoError(t, err)

		_, err = e.driverHandler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, driver.OnDuty, e.driver(t, d.ID()).Status())
	})

	t.Run("a busy driver cannot be suspended", func(t *testing.T) {
		e := newEngine(t)
		_, d, _ := e.addDispatchedTrip(t)
		// Force a state that passes the table so the trip guard is what rejects.
		require.NoError(t, e.store.DriverRepository().UpdateStatus(t.Context(), d.ID(), driver.OffDuty))
		cmd, err := commands.NewTransitionDriverStatusCommand(d.ID(), "suspended", "")
		require.NoError(t, err)

		_, err = e.driverHandler().Handle(t.Context(), cmd)

		var active *errs.ActiveTripsError
		require.ErrorAs(t, err, &active)
		assert.Equal(t, "driver", active.EntityType)
		assert.Equal(t, driver.OffDuty, e.driver(t, d.ID()).Status())
	})
}

var allDriverStatuses = []driver.Status{driver.OnDuty, driver.OffDuty, driver.Suspended, driver.OnTrip}

func TestTransitionDriverStatusCommandHandler_Handle_AllPairs(t *testing.T) {
	rules := services.DriverRules()

	for _, from := range allDriverStatuses {
		for _, to := range allDriverStatuses {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				e := newEngine(t)
				d := e.addDriver(t)
				require.NoError(t, e.store.DriverRepository().UpdateStatus(t.Context(), d.ID(), from))

				cmd, err := commands.NewTransitionDriverStatusCommand(d.ID(), to.String(), "")
				require.NoError(t, err)

				rec, err := e.driverHandler().Handle(t.Context(), cmd)

				if !slices.Contains(rules[from], to) {
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
					assert.Nil(t, rec)
					assert.Equal(t, from, e.driver(t, d.ID()).Status())
					assert.Empty(t, e.records(t, kernel.EntityTypeDriver, d.ID()))
					return
				}

				require.NoError(t, err)
				assert.Equal(t, to, e.driver(t, d.ID()).Status())

				recs := e.records(t, kernel.EntityTypeDriver, d.ID())
				require.Len(t, recs, 1)
				assert.Equal(t, rec.ID(), recs[0].ID())
				assert.Equal(t, from.String(), recs[0].PreviousStatus())
				assert.Equal(t, to.String(), recs[0].NewStatus())
			})
		}
	}
}
