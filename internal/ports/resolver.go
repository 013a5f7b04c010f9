package ports

import (
	"context"

	"github.com/yigitunlu/heroject/internal/domain"
)

// EntityResolver dereferences weak entity references.
type EntityResolver interface {
	// Resolve returns the live entity ref points at. A dangling reference, or
	// one whose kind has no registered resolver, returns domain.ErrNotFound.
	// Callers are expected to treat not-found as a normal outcome.
	Resolve(ctx context.Context, ref domain.Ref) (domain.Entity, error)
}

// Localizer translates a composed message. Implementations return the input
// unchanged when no translation exists.
type Localizer interface {
	Translate(ctx context.Context, msg string) string
}
