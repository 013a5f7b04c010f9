// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	appctx "github.com/yigitunlu/heroject/internal/app/context"
	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Placeholders rendered in place of participants that no longer resolve.
const (
	UnknownUser   = "someone"
	DeletedEntity = "[deleted]"
)

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// logFailure logs a failed operation. Caller mistakes (not found, validation,
// conflict) are logged at WARN, everything else at ERROR.
func logFailure(ctx context.Context, logger *slog.Logger, operation string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict) {
		level = slog.LevelWarn
	}
	attrs = append(attrs, logging.Operation(operation), slog.Any("error", err))
	logger.LogAttrs(ctx, level, "operation failed", attrs...)
}

// displayName resolves ref to its display form, memoized in rc. An absent or
// dangling reference renders as missing.
func displayName(rc *appctx.RequestContext, resolver ports.EntityResolver, ref domain.Ref, missing string) (string, error) {
	if ref.IsZero() {
		return missing, nil
	}
	name, err := appctx.GetOrFetch(rc, ref.String(), func(ctx context.Context) (string, error) {
		e, err := resolver.Resolve(ctx, ref)
		if err != nil {
			return "", err
		}
		return e.String(), nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return missing, nil
	}
	return name, err
}

func requiredError(field string) error {
	return domain.NewValidationError(field, domain.MsgRequired)
}
