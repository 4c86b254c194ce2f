package effects

import "errors"

// Domain errors for the effects package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, effects.ErrInvalidConfig) {
//	    // handle bad recording input
//	}
//
// Unregistered and duplicate light/group names surface as the device
// package's ErrUnknownName and ErrDuplicateName.
var (
	// ErrInvalidConfig is returned at recording time for structurally
	// invalid input: negative delays or repeats, unknown easing
	// identifiers, empty sound paths, nil custom functions.
	ErrInvalidConfig = errors.New("effects: invalid configuration")

	// ErrOpenSection is returned when Play is called while a section scope
	// is still open.
	ErrOpenSection = errors.New("effects: section still open")

	// ErrNoPlayer is returned by Play when recorded sounds rely on the
	// show-level audio player and none has been set.
	ErrNoPlayer = errors.New("effects: no audio player configured")
)
