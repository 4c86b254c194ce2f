package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/show-logic-core/internal/infrastructure/config"
)

// Logger is a thin wrapper around slog.Logger carrying the service's
// default attributes.
//
// All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging configuration.
//
// Format selects between JSON (the default) and text handlers, level
// filters out records below the configured severity, and output chooses
// stdout or stderr. Every record carries service and version attributes.
func New(cfg config.LoggingConfig, version string) *Logger {
	return newWriterLogger(cfg, version, writerFor(cfg.Output))
}

// newWriterLogger is the writer-injectable core of New, split out so
// tests can capture output.
func newWriterLogger(cfg config.LoggingConfig, version string, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "showlogic"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// writerFor maps the configured output name to its destination.
// Anything other than "stderr" lands on stdout.
func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// levelFor maps a level name (debug, info, warn/warning, error) to its
// slog value. Unrecognised names fall back to info.
func levelFor(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger that attaches the given key-value pairs to every
// record, e.g. logger.With("component", "mqtt").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a JSON logger at info level on stdout, for use during
// early startup before configuration has been loaded.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
