// Package debug carries the --debug switch through a context and points
// slog at stderr with a matching level.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type enabledKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(enabledKey{}).(bool)
	return v
}

// Level maps the debug switch to a log level: Debug when on, Warn otherwise.
func Level(enabled bool) slog.Level {
	if enabled {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// SetupLogger installs a text handler on w as the default slog logger.
// A nil w writes to stderr.
func SetupLogger(w io.Writer, enabled bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(enabled),
	}))
	slog.SetDefault(logger)
	return logger
}
