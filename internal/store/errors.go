package store

import "errors"

// ErrNotFound is returned when a record does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write.
var ErrConflict = errors.New("conflict")
