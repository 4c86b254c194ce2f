package audio

import (
	"context"
	"fmt"
	"os/exec"
)

// Config holds configuration for the exec-based player.
type Config struct {
	// Binary is the player executable, e.g. "aplay", "paplay" or "afplay".
	Binary string

	// Args are extra arguments placed before the file path.
	Args []string
}

// DefaultConfig returns a Config using aplay, the ALSA command-line player,
// in quiet mode.
func DefaultConfig() Config {
	return Config{
		Binary: "aplay",
		Args:   []string{"-q"},
	}
}

// ExecPlayer plays sounds by spawning one player process per file.
//
// Play starts the process and returns immediately; a background goroutine
// reaps the child when playback ends. The child is deliberately not bound to
// the caller's context — a dispatched sound plays out even when the show
// that triggered it is cancelled.
type ExecPlayer struct {
	config Config
	logger Logger
}

// NewExecPlayer creates a player from the given configuration.
// Returns ErrNoBinary when no executable is configured.
func NewExecPlayer(cfg Config) (*ExecPlayer, error) {
	if cfg.Binary == "" {
		return nil, ErrNoBinary
	}
	return &ExecPlayer{
		config: cfg,
		logger: noopLogger{},
	}, nil
}

// SetLogger sets the logger for the player.
func (p *ExecPlayer) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

// Play spawns the configured player binary with the file path appended to
// the configured arguments.
//
// The context gates dispatch only: a context cancelled before the process
// starts aborts the dispatch, but once started the process is never killed.
//
// Returns:
//   - ErrInvalidPath for an empty path
//   - ErrPlaybackFailed when the process cannot be started
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	args := make([]string, 0, len(p.config.Args)+1)
	args = append(args, p.config.Args...)
	args = append(args, path)

	cmd := exec.Command(p.config.Binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: starting %s: %w", ErrPlaybackFailed, p.config.Binary, err)
	}

	p.logger.Debug("sound dispatched",
		"path", path,
		"binary", p.config.Binary,
		"pid", cmd.Process.Pid,
	)

	// Reap the child so finished players do not linger as zombies.
	go func() {
		if err := cmd.Wait(); err != nil {
			p.logger.Warn("player exited with error", "path", path, "error", err)
		}
	}()

	return nil
}
