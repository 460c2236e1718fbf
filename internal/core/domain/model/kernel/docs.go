// Package kernel holds the primitives shared by every aggregate of the fleet domain.
//
// The package includes:
//   - UUID: identity value object for vehicles, drivers, trips and history records
//   - EntityType: the closed set of entity kinds whose status the engine tracks
package kernel
