package config

const (
	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
	defaultFanoutWorkers             = 8
	defaultRateLimitBurst            = 20
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "heroject",

		"store.driver":       "sqlite",
		"store.path":         "heroject.db",
		"store.busy_timeout": "5s",

		"resolver.timeout":                         "2s",
		"resolver.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"resolver.circuit_breaker.timeout":         "30s",
		"resolver.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"resolver.rate_limit.requests_per_second":  0,
		"resolver.rate_limit.burst_size":           defaultRateLimitBurst,

		"fanout.max_workers": defaultFanoutWorkers,

		"locale.catalog_path": "",
	}
}
