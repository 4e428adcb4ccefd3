package succinct

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with succinct-specific fields.
// Field names are consistent across operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithName tags records with a dictionary or blob name.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.Logger.With("name", name)}
}

// WithCount adds a count field.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{Logger: l.Logger.With("count", count)}
}

// LogBuild logs a dictionary build.
func (l *Logger) LogBuild(ctx context.Context, keys int, nodes uint64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed", "keys", keys, "error", err)
		return
	}
	l.InfoContext(ctx, "dictionary built", "keys", keys, "nodes", nodes, "duration", d)
}

// LogLoad logs loading a dictionary from source.
func (l *Logger) LogLoad(ctx context.Context, source string, bytes int64, mapped bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "source", source, "error", err)
		return
	}
	l.DebugContext(ctx, "dictionary loaded", "source", source, "bytes", bytes, "mapped", mapped)
}

// LogSave logs writing a dictionary to target.
func (l *Logger) LogSave(ctx context.Context, target string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed", "target", target, "error", err)
		return
	}
	l.InfoContext(ctx, "dictionary saved", "target", target, "bytes", bytes)
}

// LogQuery logs a query at debug level.
func (l *Logger) LogQuery(ctx context.Context, op string, results int) {
	l.DebugContext(ctx, "query completed", "op", op, "results", results)
}

// LogDelete logs removing a published dictionary.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed", "name", name, "error", err)
		return
	}
	l.InfoContext(ctx, "dictionary deleted", "name", name)
}
