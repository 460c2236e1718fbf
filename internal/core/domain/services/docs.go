// Package services provides the domain services of the fleet status engine.
//
// The package includes:
//   - the fixed transition rule tables for vehicles, drivers and trips
//   - TransitionValidator: accepts or rejects a status change against those tables
//   - TripDispatcher: checks the cross-aggregate preconditions of trip dispatch,
//     completion and cancellation
//
// Nothing here touches storage; the application layer loads the aggregates,
// asks these services, and applies the outcome.
package services
