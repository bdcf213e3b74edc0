package store

import "errors"

var (
	// ErrNotFound is returned when a job id does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidCursor is returned when a pagination cursor cannot be
	// decoded. Deliberately distinct from ErrNotFound.
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrValidation is returned when request parameters are rejected
	// before any state mutation.
	ErrValidation = errors.New("validation failed")
)
