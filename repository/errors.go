package repository

import "errors"

// Store-level error vocabulary. Storage-engine failures are translated
// into these before they leave the package so callers never see gorm or
// driver error types.
var (
	// ErrNotFound covers both a missing row and a row owned by another
	// tenant. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateName is an active-sibling name collision, either from
	// the fast-path check or from the unique index when two creates race.
	ErrDuplicateName = errors.New("an entry with this name already exists")

	// ErrStoreUnavailable wraps infrastructure-level failures that the
	// caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
