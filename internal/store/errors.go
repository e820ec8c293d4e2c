package store

import "errors"

// Sentinel errors handlers map onto HTTP statuses. Anything else coming out
// of the store is a persistence failure and maps to 500 with the message
// passed through.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)
