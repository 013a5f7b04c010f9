package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Store.validate(),
		c.Resolver.validate(),
		c.Fanout.validate(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty"))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	var errs []error

	switch s.Driver {
	case DriverMemory:
		// No further settings.
	case DriverSQLite:
		if s.Path == "" {
			errs = append(errs, errors.New("store.path must not be empty for the sqlite driver"))
		}
		if s.BusyTimeout < 0 {
			errs = append(errs, errors.New("store.busy_timeout must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: sqlite, memory; got %q", s.Driver))
	}

	return errors.Join(errs...)
}

func (r *ResolverConfig) validate() error {
	var errs []error

	if r.Timeout <= 0 {
		errs = append(errs, errors.New("resolver.timeout must be positive"))
	}
	if r.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("resolver.circuit_breaker.max_failures must be >= 1, got %d",
			r.CircuitBreaker.MaxFailures))
	}
	if r.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, errors.New("resolver.circuit_breaker.timeout must be positive"))
	}
	if r.RateLimit.RequestsPerSecond > 0 && r.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("resolver.rate_limit.burst_size must be >= 1 when limiting, got %d",
			r.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (f *FanoutConfig) validate() error {
	if f.MaxWorkers < 1 {
		return fmt.Errorf("fanout.max_workers must be >= 1, got %d", f.MaxWorkers)
	}
	return nil
}
