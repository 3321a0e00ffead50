package store

import "errors"

var (
	// ErrProjectNotFound is returned when no project exists for the given id.
	ErrProjectNotFound = errors.New("project not found")
)
