package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yigitunlu/heroject/internal/adapters/resolver"
	"github.com/yigitunlu/heroject/internal/adapters/store/memory"
	"github.com/yigitunlu/heroject/internal/adapters/store/sqlite"
	"github.com/yigitunlu/heroject/internal/app"
	"github.com/yigitunlu/heroject/internal/platform/config"
	"github.com/yigitunlu/heroject/internal/platform/health"
	"github.com/yigitunlu/heroject/internal/platform/localize"
	"github.com/yigitunlu/heroject/internal/platform/logging"
	"github.com/yigitunlu/heroject/internal/platform/telemetry"
	"github.com/yigitunlu/heroject/internal/ports"
)

// store is every port a store adapter provides.
type store interface {
	ports.ActionTypeRepository
	ports.ActionRepository
	ports.FollowRepository
	ports.NotificationRepository
	ports.InvitationRepository
	ports.DirectoryRepository
	ports.MembershipWriter
	ports.TxManager
	ports.HealthChecker
}

// services is what the commands work with, resolved from the container.
type services struct {
	Store         store
	Resolver      *resolver.Registry
	Health        *health.Registry
	Catalog       ports.CatalogService
	Activity      ports.ActivityService
	Follows       ports.FollowService
	Notifications ports.NotificationService
	Invitations   ports.InvitationService
}

// runtime owns everything built for one command invocation.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	injector *do.RootScope
	otel     *otelProviders
	close    func() error
}

// bootstrap loads configuration and wires the dependency graph.
func bootstrap(ctx context.Context, profile, configDir string, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load(profile, config.WithConfigDir(configDir))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)

	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		_ = otel.Shutdown(ctx)
		return nil, err
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	do.ProvideValue[store](injector, st)

	registerDependencies(injector, cfg, logger)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		injector: injector,
		otel:     otel,
		close:    closeStore,
	}, nil
}

// services resolves the command-facing graph and registers health checkers.
func (r *runtime) services() (*services, error) {
	svc, err := do.Invoke[*services](r.injector)
	if err != nil {
		return nil, fmt.Errorf("resolving services: %w", err)
	}
	return svc, nil
}

// shutdown closes the store and flushes telemetry.
func (r *runtime) shutdown(ctx context.Context) error {
	var errs []error
	if r.close != nil {
		if err := r.close(); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
	}
	if err := r.otel.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*resolver.Registry, error) {
		st := do.MustInvoke[store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		reg := resolver.New(&cfg.Resolver, metrics, logger)
		reg.RegisterAll(resolver.DirectoryResolvers(st))
		return reg, nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.Localizer, error) {
		return localize.FromPath(cfg.Locale.CatalogPath)
	})

	do.Provide(injector, func(i do.Injector) (*health.Registry, error) {
		registry := health.New()
		registry.Register(do.MustInvoke[store](i))
		registry.Register(do.MustInvoke[*resolver.Registry](i))
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CatalogService, error) {
		return app.NewCatalogService(do.MustInvoke[store](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ActivityService, error) {
		st := do.MustInvoke[store](i)
		return app.NewActivityService(st, st,
			do.MustInvoke[*resolver.Registry](i),
			do.MustInvoke[ports.Localizer](i),
			do.MustInvoke[*telemetry.Metrics](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.FollowService, error) {
		st := do.MustInvoke[store](i)
		return app.NewFollowService(st, st, st, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.NotificationService, error) {
		st := do.MustInvoke[store](i)
		return app.NewNotificationService(st, st, st,
			do.MustInvoke[*resolver.Registry](i),
			cfg.Fanout,
			do.MustInvoke[*telemetry.Metrics](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.InvitationService, error) {
		st := do.MustInvoke[store](i)
		return app.NewInvitationService(st, st, st,
			do.MustInvoke[*resolver.Registry](i),
			do.MustInvoke[*telemetry.Metrics](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*services, error) {
		return &services{
			Store:         do.MustInvoke[store](i),
			Resolver:      do.MustInvoke[*resolver.Registry](i),
			Health:        do.MustInvoke[*health.Registry](i),
			Catalog:       do.MustInvoke[ports.CatalogService](i),
			Activity:      do.MustInvoke[ports.ActivityService](i),
			Follows:       do.MustInvoke[ports.FollowService](i),
			Notifications: do.MustInvoke[ports.NotificationService](i),
			Invitations:   do.MustInvoke[ports.InvitationService](i),
		}, nil
	})
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}
