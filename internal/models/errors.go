package models

import "errors"

var (
	// ErrNotFound means a referenced Job or Application id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means a uniqueness rule was violated, e.g. a second
	// application for the same (user, job) pair.
	ErrDuplicate = errors.New("already exists")

	// ErrMalformedEvent means an inbound event is missing a required field
	// and cannot be applied to the catalog.
	ErrMalformedEvent = errors.New("malformed event")
)
