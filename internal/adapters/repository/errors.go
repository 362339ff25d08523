package repository

import "errors"

// ErrNotFound is returned when no participant has the requested id.
var ErrNotFound = errors.New("participant not found")
