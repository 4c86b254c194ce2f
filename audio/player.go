// Package audio provides the sound playback capability used by shows.
//
// The engine dispatches sounds fire-and-forget: it hands a file path to a
// Player and moves on, relying on recorded delays for audible duration. The
// default implementation, ExecPlayer, spawns a system player process per
// sound. Anything satisfying Player can be registered instead — a streaming
// client, a test fake, a networked renderer.
package audio

import (
	"context"
	"errors"
)

// Player is the audio playback capability contract.
type Player interface {
	// Play starts playback of the audio file at path and returns once the
	// sound has been handed off. Implementations must not block until
	// playback finishes; the engine never waits for a sound to end.
	Play(ctx context.Context, path string) error
}

// Domain errors for the audio package, checked with errors.Is().
var (
	// ErrNoBinary is returned when an ExecPlayer is configured without a
	// player executable.
	ErrNoBinary = errors.New("audio: no player binary configured")

	// ErrInvalidPath is returned when Play is given an empty path.
	ErrInvalidPath = errors.New("audio: invalid path")

	// ErrPlaybackFailed is returned when the player process cannot be
	// started.
	ErrPlaybackFailed = errors.New("audio: playback failed")
)

// Logger defines the logging interface used by players.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
