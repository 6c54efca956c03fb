package hybridscan

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with hybridscan-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSegment adds a segment field to the logger.
func (l *Logger) WithSegment(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", name),
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, subQueries, k, hits int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"sub_queries", subQueries,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"sub_queries", subQueries,
		"k", k,
		"hits", hits,
		"duration", duration,
	)
}

// LogSegmentLoad logs the load of a segment blob.
func (l *Logger) LogSegmentLoad(ctx context.Context, name string, bytes int64, docs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment load failed",
			"segment", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "segment loaded",
		"segment", name,
		"bytes", bytes,
		"docs", docs,
	)
}

// LogWrite logs the write of a segment blob.
func (l *Logger) LogWrite(ctx context.Context, name string, docs, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment write failed",
			"segment", name,
			"docs", docs,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "segment written",
		"segment", name,
		"docs", docs,
		"bytes", bytes,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, pk uint64, err error) {
	if err != nil {
		l.WarnContext(ctx, "delete failed",
			"pk", pk,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "delete completed",
		"pk", pk,
	)
}
