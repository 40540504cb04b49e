package store

import "errors"

// Sentinel errors shared by the storage backends so callers can classify
// failures without importing driver packages.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)
