package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

var configEnvVars = []string{
	"DEALSCOUT_SERVER_PORT",
	"DEALSCOUT_SERVER_ENVIRONMENT",
	"DEALSCOUT_SERVER_ALLOWED_ORIGINS",
	"DEALSCOUT_FETCH_TIMEOUT",
	"DEALSCOUT_FETCH_MAX_ATTEMPTS",
	"DEALSCOUT_FETCH_RETRY_DELAY",
	"DEALSCOUT_FETCH_MIN_SPACING",
	"DEALSCOUT_FETCH_CACHE_TTL",
	"DEALSCOUT_AGGREGATION_BUDGET",
	"DEALSCOUT_AGGREGATION_MAX_RESULTS_PER_SOURCE",
	"DEALSCOUT_STORE_DRIVER",
	"DEALSCOUT_STORE_DATABASE_URL",
	"DEALSCOUT_LOG_LEVEL",
	"DEALSCOUT_LOG_FORMAT",
	"DEALSCOUT_RATELIMIT_PER_IP",
	"DEALSCOUT_CACHE_SWEEP_SCHEDULE",
}

// chdirTemp moves into an empty directory so no config.yaml or .env is picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalDir) })
	os.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		for _, name := range configEnvVars {
			os.Unsetenv(name)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Fetch.Timeout != 30*time.Second {
			t.Errorf("Fetch.Timeout = %v, want 30s", cfg.Fetch.Timeout)
		}
		if cfg.Fetch.MaxAttempts != 2 {
			t.Errorf("Fetch.MaxAttempts = %d, want 2", cfg.Fetch.MaxAttempts)
		}
		if cfg.Fetch.RetryDelay != time.Second {
			t.Errorf("Fetch.RetryDelay = %v, want 1s", cfg.Fetch.RetryDelay)
		}
		if cfg.Fetch.MinSpacing != 500*time.Millisecond {
			t.Errorf("Fetch.MinSpacing = %v, want 500ms", cfg.Fetch.MinSpacing)
		}
		if cfg.Fetch.CacheTTL != 5*time.Minute {
			t.Errorf("Fetch.CacheTTL = %v, want 5m", cfg.Fetch.CacheTTL)
		}
		if cfg.Aggregation.Budget != 60*time.Second {
			t.Errorf("Aggregation.Budget = %v, want 60s", cfg.Aggregation.Budget)
		}
		if cfg.Aggregation.MaxResultsPerSource != 5 {
			t.Errorf("Aggregation.MaxResultsPerSource = %d, want 5", cfg.Aggregation.MaxResultsPerSource)
		}
		if cfg.Store.Driver != "none" {
			t.Errorf("Store.Driver = %s, want none", cfg.Store.Driver)
		}
		if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
			t.Errorf("Log = %+v, want json/info", cfg.Log)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.Cache.SweepSchedule != "@every 10m" {
			t.Errorf("Cache.SweepSchedule = %s, want @every 10m", cfg.Cache.SweepSchedule)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("DEALSCOUT_SERVER_PORT", "9090")
		os.Setenv("DEALSCOUT_SERVER_ENVIRONMENT", "production")
		os.Setenv("DEALSCOUT_SERVER_ALLOWED_ORIGINS", "https://dealscout.app,http://localhost:3000")
		os.Setenv("DEALSCOUT_FETCH_MAX_ATTEMPTS", "3")
		os.Setenv("DEALSCOUT_FETCH_CACHE_TTL", "10m")
		os.Setenv("DEALSCOUT_AGGREGATION_BUDGET", "20s")
		os.Setenv("DEALSCOUT_STORE_DRIVER", "sqlite")
		os.Setenv("DEALSCOUT_STORE_DATABASE_URL", "dealscout.db")
		os.Setenv("DEALSCOUT_LOG_FORMAT", "console")
		os.Setenv("DEALSCOUT_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[0] != "https://dealscout.app" {
			t.Errorf("Server.AllowedOrigins = %v, want two origins", cfg.Server.AllowedOrigins)
		}
		if cfg.Fetch.MaxAttempts != 3 {
			t.Errorf("Fetch.MaxAttempts = %d, want 3", cfg.Fetch.MaxAttempts)
		}
		if cfg.Fetch.CacheTTL != 10*time.Minute {
			t.Errorf("Fetch.CacheTTL = %v, want 10m", cfg.Fetch.CacheTTL)
		}
		if cfg.Aggregation.Budget != 20*time.Second {
			t.Errorf("Aggregation.Budget = %v, want 20s", cfg.Aggregation.Budget)
		}
		if cfg.Store.Driver != "sqlite" || cfg.Store.DatabaseURL != "dealscout.db" {
			t.Errorf("Store = %+v, want sqlite/dealscout.db", cfg.Store)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when database URL is missing", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("DEALSCOUT_STORE_DRIVER", "postgres")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing database URL")
		}
		if !strings.Contains(err.Error(), "database URL is required") {
			t.Errorf("Load() error = %v, want 'database URL is required'", err)
		}
	})

	t.Run("fails validation for unknown store driver", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		os.Setenv("DEALSCOUT_STORE_DRIVER", "mongo")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for unknown store driver")
		}
	})

	t.Run("reads values from .env file", func(t *testing.T) {
		cleanupEnv()
		chdirTemp(t)
		defer cleanupEnv()

		if err := os.WriteFile(".env", []byte("DEALSCOUT_SERVER_PORT=7070\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("skips comments and loads variables", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# This is a comment
TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")
		defer os.Unsetenv("TEST_SKIP_1")
		defer os.Unsetenv("TEST_SKIP_2")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)
		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:     30 * time.Second,
			MaxAttempts: 2,
			RetryDelay:  time.Second,
			MinSpacing:  500 * time.Millisecond,
			CacheTTL:    5 * time.Minute,
		},
		Aggregation: AggregationConfig{Budget: time.Minute, MaxResultsPerSource: 5},
		Store:       StoreConfig{Driver: "none"},
		Log:         LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with defaults", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store driver", func(c *Config) { c.Store.Driver = "redis" }},
		{"postgres without URL", func(c *Config) { c.Store.Driver = "postgres" }},
		{"sqlite without URL", func(c *Config) { c.Store.Driver = "sqlite" }},
		{"zero attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = 0 }},
		{"negative retry delay", func(c *Config) { c.Fetch.RetryDelay = -time.Second }},
		{"zero cache TTL", func(c *Config) { c.Fetch.CacheTTL = 0 }},
		{"zero budget", func(c *Config) { c.Aggregation.Budget = 0 }},
		{"zero results per source", func(c *Config) { c.Aggregation.MaxResultsPerSource = 0 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative per-IP limit", func(c *Config) { c.RateLimit.PerIP = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Error("validate() error = nil, want error")
			}
		})
	}

	t.Run("postgres with URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store = StoreConfig{Driver: "postgres", DatabaseURL: "postgres://localhost/dealscout"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})
}

func TestInitLogger(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	if err := InitLogger(LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if !zap.L().Core().Enabled(zap.DebugLevel) {
		t.Error("debug level not enabled on global logger")
	}

	if err := InitLogger(LogConfig{Level: "warn", Format: "json"}); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if zap.L().Core().Enabled(zap.InfoLevel) {
		t.Error("info level enabled with warn config")
	}

	if err := InitLogger(LogConfig{Level: "loud"}); err == nil {
		t.Error("InitLogger() error = nil, want error for bad level")
	}
}
