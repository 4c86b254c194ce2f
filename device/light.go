package device

import "context"

// Colour is a three-channel colour value.
//
// Channel meaning belongs to the backend that receives it — the engine
// interpolates and forwards channels but never interprets them. By
// convention the channels are hue (0-255), saturation (0-100) and value
// (0-100), matching the SetColour contract.
type Colour [3]int

// Light is the capability contract a registered light must satisfy.
//
// Implementations are expected to return promptly: a call should hand the
// command to its backend (a network write, a bridge publish) rather than
// wait for the physical device to settle. Methods may be called from
// multiple goroutines when a light appears in parallel sections or groups.
type Light interface {
	// TurnOn switches the light on.
	TurnOn(ctx context.Context) error

	// TurnOff switches the light off.
	TurnOff(ctx context.Context) error

	// SetColour applies a colour. By convention hue is 0-255 and
	// saturation/value are 0-100; the backend owns the interpretation.
	SetColour(ctx context.Context, hue, saturation, value int) error
}
