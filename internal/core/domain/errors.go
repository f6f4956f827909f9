package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync run is already executing.
	// Both scheduled and manual triggers receive this from the
	// orchestrator's in-flight guard.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrInvalidInterval indicates a schedule interval that is not
	// strictly positive.
	ErrInvalidInterval = errors.New("interval must be greater than zero")

	// ErrObjectNotFound indicates a requested bucket object does not exist.
	// Missing bucket and missing key are equivalent for readers.
	ErrObjectNotFound = errors.New("object not found")
)
