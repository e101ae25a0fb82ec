package service

import "errors"

// Validation errors detected before any mutation. Store-level sentinels
// (not-found, duplicate-name) live in the repository package and pass
// through unchanged.
var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrParentNotFound covers a parent that is missing, foreign-owned,
	// not a folder, or trashed.
	ErrParentNotFound = errors.New("parent folder not found")

	// ErrInvalidState rejects a lifecycle transition the entry's current
	// state does not allow.
	ErrInvalidState = errors.New("operation not allowed in current state")
)
