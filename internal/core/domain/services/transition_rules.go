package services

import (
	"maps"
	"slices"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
)

// Request tables: the transitions a caller may ask for directly.
var (
	vehicleTransitions = map[vehicle.Status][]vehicle.Status{
		vehicle.Available: {vehicle.OnTrip, vehicle.InShop, vehicle.Retired},
		vehicle.OnTrip:    {vehicle.Available, vehicle.InShop},
		vehicle.InShop:    {vehicle.Available, vehicle.Retired},
		vehicle.Retired:   {},
	}

	driverTransitions = map[driver.Status][]driver.Status{
		driver.OnDuty:    {driver.OffDuty, driver.Suspended},
		driver.OffDuty:   {driver.OnDuty, driver.Suspended},
		driver.Suspended: {driver.OnDuty, driver.OffDuty},
	}

	tripTransitions = map[trip.Status][]trip.Status{
		trip.Draft:      {trip.Dispatched, trip.Cancelled},
		trip.Dispatched: {trip.Completed, trip.Cancelled},
		trip.Completed:  {},
		trip.Cancelled:  {},
	}
)

// System tables: extra edges only trip operations and their compensation use.
var (
	driverSystemTransitions = map[driver.Status][]driver.Status{
		driver.OnDuty: {driver.OnTrip},
		driver.OnTrip: {driver.OnDuty},
	}

	tripSystemTransitions = map[trip.Status][]trip.Status{
		trip.Dispatched: {trip.Draft},
	}
)

// VehicleRules returns a copy of the vehicle request table.
func VehicleRules() map[vehicle.Status][]vehicle.Status {
	return cloneTable(vehicleTransitions)
}

// DriverRules returns a copy of the driver request table.
func DriverRules() map[driver.Status][]driver.Status {
	return cloneTable(driverTransitions)
}

// TripRules returns a copy of the trip request table.
func TripRules() map[trip.Status][]trip.Status {
	return cloneTable(tripTransitions)
}

func isAllowed[S comparable](table map[S][]S, from, to S) bool {
	return slices.Contains(table[from], to)
}

func cloneTable[S comparable](table map[S][]S) map[S][]S {
	out := maps.Clone(table)
	for from, targets := range out {
		out[from] = slices.Clone(targets)
	}
	return out
}
