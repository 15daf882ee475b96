package workouts

import "errors"

var (
	// ErrUnauthenticated means the caller identity is missing.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is returned both for workouts that do not exist and for
	// workouts owned by someone else.
	ErrNotFound = errors.New("workout not found")
	// ErrStoreUnavailable wraps every failure to read from the store.
	ErrStoreUnavailable = errors.New("workout store unavailable")
)
