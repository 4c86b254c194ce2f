package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrUnknownName) {
//	    // handle unregistered name
//	}
var (
	// ErrUnknownName is returned when a light or group name has not been
	// registered.
	ErrUnknownName = errors.New("device: unknown name")

	// ErrDuplicateName is returned when registering a name that is already
	// in use by a light or group.
	ErrDuplicateName = errors.New("device: duplicate name")

	// ErrInvalidName is returned when a name is empty.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrNilLight is returned when registering a nil light capability.
	ErrNilLight = errors.New("device: nil light")

	// ErrEmptyGroup is returned when registering a group with no members.
	ErrEmptyGroup = errors.New("device: empty group")
)
