// Package resolver dereferences entity references through a table of one
// resolve function per kind.
//
// Every call is processed in this order:
//
//	Circuit Breaker → Rate Limiter → Timeout → OTEL Span → ResolveFunc
//
// Construction:
//
//	reg := resolver.New(&cfg.Resolver, metrics, logger)
//	reg.RegisterAll(resolver.DirectoryResolvers(store))
//
// A not-found result is a normal outcome and never trips a breaker.
package resolver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/platform/config"
	"github.com/yigitunlu/heroject/internal/platform/telemetry"
	"github.com/yigitunlu/heroject/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EntityResolver = (*Registry)(nil)
	_ ports.HealthChecker  = (*Registry)(nil)
)

// ResolveFunc loads the entity of one kind by ID. It returns an error
// wrapping domain.ErrNotFound when the entity does not exist.
type ResolveFunc func(ctx context.Context, id string) (domain.Entity, error)

// Registry is the per-kind resolver table. It is safe for concurrent use.
type Registry struct {
	cfg     config.ResolverConfig
	metrics *telemetry.Metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	guards map[domain.Kind]*guard
}

// guard wraps one ResolveFunc with its own breaker and limiter so a failing
// kind cannot starve the others.
type guard struct {
	kind    domain.Kind
	fn      ResolveFunc
	breaker *gobreaker.CircuitBreaker[domain.Entity]
	limiter *rate.Limiter // nil when rate limiting is disabled
}

// New creates an empty registry. If metrics is nil, metric recording is
// skipped; a nil logger discards output.
func New(cfg *config.ResolverConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		cfg:     *cfg,
		metrics: metrics,
		logger:  logger,
		guards:  make(map[domain.Kind]*guard),
	}
}

// Register installs fn for kind, replacing any previous function and
// resetting that kind's breaker.
func (r *Registry) Register(kind domain.Kind, fn ResolveFunc) {
	g := &guard{
		kind:    kind,
		fn:      fn,
		breaker: r.newBreaker(kind),
	}
	if r.cfg.RateLimit.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit.RequestsPerSecond), r.cfg.RateLimit.BurstSize)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[kind] = g
}

// RegisterAll registers every entry of fns.
func (r *Registry) RegisterAll(fns map[domain.Kind]ResolveFunc) {
	for kind, fn := range fns {
		r.Register(kind, fn)
	}
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []domain.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.Kind, 0, len(r.guards))
	for k := range r.guards {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Resolve implements ports.EntityResolver. An absent reference or a kind with
// no registered function returns domain.ErrNotFound. When the kind's breaker
// is open the error wraps domain.ErrUnavailable.
func (r *Registry) Resolve(ctx context.Context, ref domain.Ref) (domain.Entity, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("resolving empty reference: %w", domain.ErrNotFound)
	}

	r.mu.RLock()
	g, ok := r.guards[ref.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no resolver for kind %q: %w", ref.Kind, domain.ErrNotFound)
	}

	start := time.Now()
	entity, err := g.breaker.Execute(func() (domain.Entity, error) {
		if err := g.waitForRateLimit(ctx); err != nil {
			return nil, err
		}

		callCtx := ctx
		if r.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
			defer cancel()
		}

		spanCtx, span := startSpan(callCtx, ref)
		defer span.End()

		e, err := g.fn(spanCtx, ref.ID)
		finishSpan(span, err)
		return e, err
	})

	r.metrics.Resolved(ctx, string(ref.Kind), resultOf(err), time.Since(start))

	if isBreakerRejection(err) {
		return nil, fmt.Errorf("resolving %s: %w: %w", ref, domain.ErrUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", ref, err)
	}
	return entity, nil
}

// Name implements ports.HealthChecker.
func (r *Registry) Name() string {
	return "resolver"
}

// HealthCheck reports the breaker state of every registered kind. No resolve
// call is made.
//
// State mapping:
//   - "closed": the kind resolves normally.
//   - "half-open": the breaker is probing recovery; reported as degraded.
//   - "open": resolutions are being rejected; reported as failing.
func (r *Registry) HealthCheck(_ context.Context) error {
	r.mu.RLock()
	guards := make([]*guard, 0, len(r.guards))
	for _, g := range r.guards {
		guards = append(guards, g)
	}
	r.mu.RUnlock()

	slices.SortFunc(guards, func(a, b *guard) int { return cmp.Compare(a.kind, b.kind) })

	var errs []error
	for _, g := range guards {
		switch state := g.breaker.State(); state {
		case gobreaker.StateClosed:
		case gobreaker.StateHalfOpen:
			errs = append(errs, fmt.Errorf("%s: degraded (circuit breaker half-open)", g.kind))
		case gobreaker.StateOpen:
			errs = append(errs, fmt.Errorf("%s: failing (circuit breaker open)", g.kind))
		default:
			errs = append(errs, fmt.Errorf("%s: unknown circuit breaker state %v", g.kind, state))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) newBreaker(kind domain.Kind) *gobreaker.CircuitBreaker[domain.Entity] {
	cb := r.cfg.CircuitBreaker
	logger := r.logger
	return gobreaker.NewCircuitBreaker[domain.Entity](gobreaker.Settings{
		Name:        string(kind),
		MaxRequests: toUint32(cb.HalfOpenLimit),
		Timeout:     cb.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cb.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// waitForRateLimit blocks until the limiter allows the call or the context is
// canceled. Returns nil immediately when rate limiting is disabled.
func (g *guard) waitForRateLimit(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

func startSpan(ctx context.Context, ref domain.Ref) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(telemetry.InstrumentationScope)
	return tracer.Start(ctx, "resolve "+string(ref.Kind),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("entity.kind", string(ref.Kind)),
			attribute.String("entity.id", ref.ID),
		),
	)
}

func finishSpan(span trace.Span, err error) {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return telemetry.ResultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return telemetry.ResultNotFound
	case isBreakerRejection(err):
		return telemetry.ResultRejected
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return telemetry.ResultCancelled
	default:
		return telemetry.ResultError
	}
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
