package scheduler

import "errors"

var (
	// ErrInvalidBounds is returned for unusable combination size bounds.
	ErrInvalidBounds = errors.New("scheduler: invalid combination bounds")
	// ErrInvalidOptions is returned for inconsistent engine options.
	ErrInvalidOptions = errors.New("scheduler: invalid options")
)
