package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yigitunlu/heroject/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Store.Path != ".heroject/local.db" {
		t.Errorf("Store.Path = %q, want \".heroject/local.db\"", cfg.Store.Path)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Resolver.RateLimit.RequestsPerSecond != 200 {
		t.Errorf("Resolver.RateLimit.RequestsPerSecond = %v, want 200", cfg.Resolver.RateLimit.RequestsPerSecond)
	}
	if cfg.Fanout.MaxWorkers != 16 {
		t.Errorf("Fanout.MaxWorkers = %d, want 16", cfg.Fanout.MaxWorkers)
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("test")
	if err != nil {
		t.Fatalf("Load(\"test\") error: %v", err)
	}

	// These come from base.yaml, not overridden by test.yaml.
	if cfg.Resolver.CircuitBreaker.MaxFailures != 5 {
		t.Errorf("Resolver.CircuitBreaker.MaxFailures = %d, want 5 (from base)",
			cfg.Resolver.CircuitBreaker.MaxFailures)
	}
	if cfg.Resolver.Timeout != 2*time.Second {
		t.Errorf("Resolver.Timeout = %v, want 2s (from base)", cfg.Resolver.Timeout)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want \"memory\" (from test)", cfg.Store.Driver)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  format: text\n")
	writeFile(t, filepath.Join(dir, "mini.yaml"), "store:\n  driver: memory\n")

	cfg, err := config.Load("mini", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default \"info\"", cfg.Log.Level)
	}
	if cfg.Fanout.MaxWorkers != 8 {
		t.Errorf("Fanout.MaxWorkers = %d, want default 8", cfg.Fanout.MaxWorkers)
	}
	if cfg.Resolver.CircuitBreaker.Timeout != 30*time.Second {
		t.Errorf("Resolver.CircuitBreaker.Timeout = %v, want default 30s", cfg.Resolver.CircuitBreaker.Timeout)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_FANOUT_MAX_WORKERS", "3")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Fanout.MaxWorkers != 3 {
		t.Errorf("Fanout.MaxWorkers = %d, want 3 (env override)", cfg.Fanout.MaxWorkers)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_STORE_BUSY_TIMEOUT", "15s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Store.BusyTimeout != want {
		t.Errorf("Store.BusyTimeout = %v, want %v (env override)", cfg.Store.BusyTimeout, want)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_RESOLVER_CIRCUIT_BREAKER_MAX_FAILURES", "7")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Resolver.CircuitBreaker.MaxFailures != 7 {
		t.Errorf("Resolver.CircuitBreaker.MaxFailures = %d, want 7 (env override)",
			cfg.Resolver.CircuitBreaker.MaxFailures)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", "a/b"} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_UnknownStoreDriver(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Store.Driver = "postgres"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for unknown store driver")
	}
}

func TestValidate_SqliteWithoutPath(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Store.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for sqlite without path")
	}
}

func TestValidate_MemoryIgnoresPath(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Store.Driver = "memory"
	cfg.Store.Path = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for memory store: %v", err)
	}
}

func TestValidate_ZeroFanoutWorkers(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Fanout.MaxWorkers = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for fanout.max_workers=0")
	}
}

func TestValidate_RateLimitWithoutBurst(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Resolver.RateLimit = config.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 0}

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for rate limit without burst")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: config.TelemetryConfig{
			Enabled:     false,
			Exporter:    "stdout",
			ServiceName: "heroject",
		},
		Store: config.StoreConfig{
			Driver:      "sqlite",
			Path:        "heroject.db",
			BusyTimeout: 5 * time.Second,
		},
		Resolver: config.ResolverConfig{
			Timeout: 2 * time.Second,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Fanout: config.FanoutConfig{MaxWorkers: 8},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
