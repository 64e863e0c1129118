package storage

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist, or is not
	// visible to the requester.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a requested write conflicts with uniqueness
	// constraints, such as a duplicate email or participant pair.
	ErrConflict = errors.New("already exists")

	// ErrUnavailable indicates a transient store failure; reads may be
	// retried, writes must not be retried automatically.
	ErrUnavailable = errors.New("storage unavailable")
)
