// Package guard provides ConstructorGuard, which lets commands, queries and value
// objects detect that they were built as zero values instead of through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in structs that must only be created through a
// constructor function. The zero value is "not constructed".
//
// Example:
//
//	type StartProductionCommand struct {
//	    orderID string
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c StartProductionCommand) Validate() error {
//	    return c.guard.Validate(ErrStartProductionCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded object was not built by its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
