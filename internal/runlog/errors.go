package runlog

import "errors"

// Domain errors for the runlog package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, runlog.ErrRunNotFound) {
//	    // handle not found case
//	}
var (
	// ErrRunNotFound is returned when a run ID does not exist.
	ErrRunNotFound = errors.New("runlog: run not found")

	// ErrRunExists is returned when creating a run with an ID that already exists.
	ErrRunExists = errors.New("runlog: run already exists")
)
