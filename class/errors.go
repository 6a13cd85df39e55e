package class

import "errors"

var (
	// ErrUndefinedOperation is returned when calling an operation an object
	// does not respond to.
	ErrUndefinedOperation = errors.New("undefined operation")

	// ErrConstruction is returned when an object cannot be created from the
	// given constructor arguments.
	ErrConstruction = errors.New("construction failed")

	// ErrReadOnlyField is returned when assigning a read-only instance
	// variable after initialization.
	ErrReadOnlyField = errors.New("read-only field")

	// ErrInvalidDefinition is returned by New for malformed definitions.
	ErrInvalidDefinition = errors.New("invalid class definition")
)
