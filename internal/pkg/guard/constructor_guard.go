// Package guard holds small helpers that protect domain invariants.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero value guard when no error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor.
//
// Embed it in a struct and set it with NewConstructorGuard inside the constructor.
// A zero value struct then fails Validate, which catches values created with a
// composite literal that skipped the constructor's checks.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns err,
// or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.constructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
