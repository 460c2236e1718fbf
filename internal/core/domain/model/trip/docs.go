// Package trip provides the Trip aggregate and its lifecycle Status.
//
// A trip ties cargo to one vehicle and one driver. Its status moves
// Draft -> Dispatched -> Completed, or to Cancelled from either of the first two.
// Dispatching, completing and cancelling also change the vehicle and driver; that
// coordination lives in the application layer, not here.
package trip
