package ports

// EntityStore hands out the repositories holding live entity state.
//
// Unlike a unit of work it opens no transaction: each repository call commits
// on its own, and the history log lives in a separate store. Keeping the two
// in agreement is the status engine's job.
type EntityStore interface {
	VehicleRepository() VehicleRepository
	DriverRepository() DriverRepository
	TripRepository() TripRepository
}
