package cellmap

import (
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/cellmap/model"
)

// Logger wraps slog.Logger with cellmap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithMapID adds a map_id field to the logger.
func (l *Logger) WithMapID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("map_id", id),
	}
}

// WithOrbit adds an orbit field to the logger.
func (l *Logger) WithOrbit(orbit model.Orbit) *Logger {
	return &Logger{
		Logger: l.Logger.With("orbit", orbit.String()),
	}
}

// LogAttribute logs an attribute add or remove.
func (l *Logger) LogAttribute(op string, orbit model.Orbit, name string, err error) {
	if err != nil {
		l.Warn("attribute "+op+" failed",
			"orbit", orbit.String(),
			"name", name,
			"error", err,
		)
	} else {
		l.Debug("attribute "+op,
			"orbit", orbit.String(),
			"name", name,
		)
	}
}

// LogCacheRebuild logs a quick traversal cache rebuild. Scope the logger
// with WithOrbit first.
func (l *Logger) LogCacheRebuild(kind string, cells int, elapsed time.Duration) {
	l.Debug("quick traversal rebuilt",
		"kind", kind,
		"cells", cells,
		"elapsed", elapsed,
	)
}

// LogBijective logs a bijective re-embedding pass.
func (l *Logger) LogBijective(orbit model.Orbit, split int) {
	if split > 0 {
		l.Info("shared records split",
			"orbit", orbit.String(),
			"split", split,
		)
	} else {
		l.Debug("embedding already bijective",
			"orbit", orbit.String(),
		)
	}
}

// LogCheck logs the outcome of a consistency check.
func (l *Logger) LogCheck(violations int, err error) {
	if err != nil {
		l.Warn("consistency check failed",
			"violations", violations,
			"error", err,
		)
	} else {
		l.Debug("consistency check passed")
	}
}
