// Package logging provides structured logger construction and context propagation
// using the standard library slog package.
//
// Logger construction:
//
//	logger := logging.New("info", "json", os.Stderr)
//
// Context propagation (used by the CLI to attach command metadata):
//
//	ctx = logging.WithLogger(ctx, logger)
//	logger = logging.FromContext(ctx)
//
// Error logging convention for application services:
//
//	logger.LogAttrs(ctx, slog.LevelError, "operation failed",
//	    logging.Operation("Record"),
//	    logging.Ref("object", a.Object),
//	    slog.Any("error", err),
//	)
//
// Every error log should include the operation name, the references involved,
// and the full error chain via slog.Any("error", err). References log as a
// group so handlers can filter by kind:
//
//	{"object":{"kind":"task","id":"t1"}}
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

// contextKey is the unexported key type for storing loggers in context.
type contextKey struct{}

// New creates a configured *slog.Logger.
//
// The level parameter sets the minimum log level. Valid values are "debug",
// "info", "warn", and "error". Unrecognized values default to info.
//
// The format parameter selects the output handler. "text" uses
// slog.NewTextHandler; all other values (including "json") use
// slog.NewJSONHandler.
//
// When level is "debug", source code location is included in log output.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a *slog.Logger from the context.
// If no logger is stored, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Ref returns key as a {kind, id} group. An absent reference yields an empty
// attribute, which handlers drop.
func Ref(key string, ref domain.Ref) slog.Attr {
	if ref.IsZero() {
		return slog.Attr{}
	}
	return slog.Group(key,
		slog.String("kind", ref.Kind.String()),
		slog.String("id", ref.ID),
	)
}

// Operation names the use case a record belongs to.
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// parseLevel converts a level string to slog.Level.
// Unrecognized values default to slog.LevelInfo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
