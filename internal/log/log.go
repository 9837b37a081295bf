// Package log configures structured logging for fightlog using log/slog.
package log

import (
	"io"
	"log/slog"
)

// Setup installs a default slog logger writing text to w and returns it.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both flags are set.
func Setup(w io.Writer, verbose, quiet bool) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbose, quiet),
	}))
	slog.SetDefault(logger)
	return logger
}

// Level maps the verbosity flags to a slog level.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
