package units

import "errors"

var (
	// ErrNotFound is returned when no unit has the requested id.
	ErrNotFound = errors.New("unit not found")
	// ErrDuplicateExternalID is returned when id_unidade is already taken.
	ErrDuplicateExternalID = errors.New("id_unidade already in use")
)
