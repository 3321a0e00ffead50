package service

import "errors"

var (
	// ErrProjectNameRequired is returned when a project is created or
	// renamed with an empty name.
	ErrProjectNameRequired = errors.New("project name is required")

	// ErrInvalidPhase is returned when a project is moved to an unknown
	// workflow phase.
	ErrInvalidPhase = errors.New("invalid project phase")

	// ErrNoSession is returned when no session token is stored.
	ErrNoSession = errors.New("no active session")

	// ErrSessionInvalid is returned when the stored session token cannot be
	// parsed or lacks the identity claims.
	ErrSessionInvalid = errors.New("session token is invalid")
)
