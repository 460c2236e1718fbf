package commands_test

import (
	"slices"
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTripStatusCommandHandler_Handle(t *testing.T) {
	t.Run("moves the trip only", func(t *testing.T) {
		e := newEngine(t)
		v := e.addVehicle(t, 20000, 0)
		d := e.addDriver(t)
		tr := e.addTrip(t, v, d, 500)
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "cancelled", "customer withdrew")
		require.NoError(t, err)

		rec, err := e.tripHandler().Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "draft", rec.PreviousStatus())
		assert.Equal(t, trip.Cancelled, e.trip(t, tr.ID()).Status())
		assert.Equal(t, vehicle.Available, e.vehicle(t, v.ID()).Status())
		assert.Equal(t, driver.OnDuty, e.driver(t, d.ID()).Status())
	})

	t.Run("terminal trips reject repeats", func(t *testing.T) {
		e := newEngine(t)
		v := e.addVehicle(t, 20000, 0)
		d := e.addDriver(t)
		tr := e.addTrip(t, v, d, 500)
		require.NoError(t, e.store.TripRepository().UpdateStatus(t.Context(), tr.ID(), trip.Completed))
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "completed", "")
		require.NoError(t, err)

		_, err = e.tripHandler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, e.records(t, kernel.EntityTypeTrip, tr.ID()))
	})
	t.Run("dispatched runs the dispatch checks", func(t *testing.T) {
		e := newEngine(t)
		v := e.addVehicle(t, 20000, 45000)
		d := e.addDriver(t)
		tr := e.addTrip(t, v, d, 25000)
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "dispatched", "")
		require.NoError(t, err)

		rec, err := e.tripHandler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrCargoViolation)
		assert.Nil(t, rec)
		assert.Equal(t, trip.Draft, e.trip(t, tr.ID()).Status())
		assert.Equal(t, vehicle.Available, e.vehicle(t, v.ID()).Status())
		assert.Equal(t, driver.OnDuty, e.driver(t, d.ID()).Status())
		assert.Empty(t, e.records(t, kernel.EntityTypeTrip, tr.ID()))
		assert.Empty(t, e.publishedEvents())
	})

	t.Run("dispatched books the vehicle and driver", func(t *testing.T) {
		e := newEngine(t)
		v := e.addVehicle(t, 20000, 45000)
		d := e.addDriver(t)
		tr := e.addTrip(t, v, d, 18000)
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "dispatched", "morning run")
		require.NoError(t, err)

		rec, err := e.tripHandler().Handle(t.Context(), cmd)

		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "dispatched", rec.NewStatus())
		assert.Equal(t, "morning run", rec.ReasonText())
		got := e.trip(t, tr.ID())
		assert.Equal(t, trip.Dispatched, got.Status())
		require.NotNil(t, got.StartOdometer())
		assert.InDelta(t, 45000, *got.StartOdometer(), 0)
		assert.Equal(t, vehicle.OnTrip, e.vehicle(t, v.ID()).Status())
		assert.Equal(t, driver.OnTrip, e.driver(t, d.ID()).Status())
	})

	t.Run("cancelling a dispatched trip frees the driver", func(t *testing.T) {
		e := newEngine(t)
		v, d, tr := e.addDispatchedTrip(t)
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "cancelled", "road closed")
		require.NoError(t, err)

		rec, err := e.tripHandler().Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "dispatched", rec.PreviousStatus())
		assert.Equal(t, "cancelled", rec.NewStatus())
		assert.Equal(t, trip.Cancelled, e.trip(t, tr.ID()).Status())
		assert.Equal(t, vehicle.Available, e.vehicle(t, v.ID()).Status())
		assert.Equal(t, driver.OnDuty, e.driver(t, d.ID()).Status())
	})

	t.Run("completed needs the end odometer", func(t *testing.T) {
		e := newEngine(t)
		v, d, tr := e.addDispatchedTrip(t)
		cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), "completed", "")
		require.NoError(t, err)

		rec, err := e.tripHandler().Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrCompletionNeedsOdometer)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, rec)
		assert.Equal(t, trip.Dispatched, e.trip(t, tr.ID()).Status())
		assert.Equal(t, vehicle.OnTrip, e.vehicle(t, v.ID()).Status())
		assert.Equal(t, driver.OnTrip, e.driver(t, d.ID()).Status())
		assert.Len(t, e.records(t, kernel.EntityTypeTrip, tr.ID()), 1)
	})
}

var allTripStatuses = []trip.Status{trip.Draft, trip.Dispatched, trip.Completed, trip.Cancelled}

func TestTransitionTripStatusCommandHandler_Handle_AllPairs(t *testing.T) {
	rules := services.TripRules()

	for _, from := range allTripStatuses {
		for _, to := range allTripStatuses {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				e := newEngine(t)
				var (
					v  *vehicle.Vehicle
					d  *driver.Driver
					tr *trip.Trip
				)
				if from == trip.Dispatched {
					v, d, tr = e.addDispatchedTrip(t)
				} else {
					v = e.addVehicle(t, 20000, 45000)
					d = e.addDriver(t)
					tr = e.addTrip(t, v, d, 18000)
					if from != trip.Draft {
						require.NoError(t, e.store.TripRepository().UpdateStatus(t.Context(), tr.ID(), from))
					}
				}
				before := len(e.records(t, kernel.EntityTypeTrip, tr.ID()))
				vehicleBefore := e.vehicle(t, v.ID()).Status()
				driverBefore := e.driver(t, d.ID()).Status()

				cmd, err := commands.NewTransitionTripStatusCommand(tr.ID(), to.String(), "")
				require.NoError(t, err)

				rec, err := e.tripHandler().Handle(t.Context(), cmd)

				if !slices.Contains(rules[from], to) {
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
					assert.Nil(t, rec)
					assert.Equal(t, from, e.trip(t, tr.ID()).Status())
					assert.Len(t, e.records(t, kernel.EntityTypeTrip, tr.ID()), before)
					assert.Equal(t, vehicleBefore, e.vehicle(t, v.ID()).Status())
					assert.Equal(t, driverBefore, e.driver(t, d.ID()).Status())
					return
				}

				if to == trip.Completed {
					require.ErrorIs(t, err, commands.ErrCompletionNeedsOdometer)
					assert.Equal(t, from, e.trip(t, tr.ID()).Status())
					return
				}

				require.NoError(t, err)
				assert.Equal(t, to, e.trip(t, tr.ID()).Status())
				assert.Equal(t, from.String(), rec.PreviousStatus())
				assert.Equal(t, to.String(), rec.NewStatus())

				// The parties are on a trip exactly when the trip is dispatched.
				wantVehicle, wantDriver := vehicle.Available, driver.OnDuty
				if to == trip.Dispatched {
					wantVehicle, wantDriver = vehicle.OnTrip, driver.OnTrip
				}
				assert.Equal(t, wantVehicle, e.vehicle(t, v.ID()).Status())
				assert.Equal(t, wantDriver, e.driver(t, d.ID()).Status())
			})
		}
	}
}
