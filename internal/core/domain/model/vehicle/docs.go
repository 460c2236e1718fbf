// Package vehicle models fleet vehicles: the Vehicle aggregate and its Status enumeration.
//
// Key business rules:
//   - a vehicle is registered Available with a positive capacity
//   - the odometer is monotonically non-decreasing
//   - Retired is terminal
//   - only Available vehicles can be dispatched, and only with cargo within capacity
package vehicle
