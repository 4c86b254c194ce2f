package effects

import "time"

// Event describes one leaf dispatch during playback.
type Event struct {
	// Kind is the effect variant, e.g. "light_on", "colour_transition",
	// "sound", "delay", "custom".
	Kind string

	// Target is the light or group name, the sound path, or the delay
	// duration, depending on Kind.
	Target string

	// At is when the event occurred.
	At time.Time

	// Err is set on completion events when the dispatch failed.
	Err error
}

// Observer receives leaf dispatch notifications during playback.
//
// Callbacks run on the dispatching branch's goroutine: implementations must
// return quickly and be safe for concurrent use, since parallel branches
// notify independently. A slow observer delays the branch that calls it.
type Observer interface {
	// EffectStarted is called immediately before a leaf is dispatched.
	EffectStarted(ev Event)

	// EffectCompleted is called when a leaf finishes, successfully or not.
	// It is not called for leaves interrupted by cancellation.
	EffectCompleted(ev Event)
}
