package queue

import "errors"

var (
	// ErrNotFound indicates a mutation referenced an untracked job id.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidTransition indicates a mutation would regress or re-apply a
	// one-way flag transition (for example rejecting an already downloaded
	// job). The row is left untouched.
	ErrInvalidTransition = errors.New("invalid job transition")
)
