package failures

import "errors"

var (
	// ErrNotFound is returned when no failure has the requested id.
	ErrNotFound = errors.New("failure not found")
	// ErrUnknownUnit is returned when a failure points at a unit that does not exist.
	ErrUnknownUnit = errors.New("unidade does not exist")
)
