package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Store       StoreConfig       `mapstructure:"store"`
	Log         LogConfig         `mapstructure:"log"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Cache       CacheConfig       `mapstructure:"cache"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig tunes the per-source fetch runtime
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	MinSpacing   time.Duration `mapstructure:"min_spacing"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// AggregationConfig bounds the fan-out across sources
type AggregationConfig struct {
	Budget              time.Duration `mapstructure:"budget"`
	MaxResultsPerSource int           `mapstructure:"max_results_per_source"`
}

// StoreConfig selects where search logs are written
type StoreConfig struct {
	Driver      string `mapstructure:"driver"` // "none", "postgres" or "sqlite"
	DatabaseURL string `mapstructure:"database_url"`
}

// LogConfig configures the global zap logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// CacheConfig holds document cache maintenance configuration
type CacheConfig struct {
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscout/")

	// Environment variable settings
	v.SetEnvPrefix("DEALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "error reading config file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrap(err, "unable to decode config")
	}

	// Comma-separated origins from the environment arrive as one element.
	config.Server.AllowedOrigins = splitOrigins(config.Server.AllowedOrigins)

	if err := validate(&config); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Fetch defaults
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_attempts", 2)
	v.SetDefault("fetch.retry_delay", "1s")
	v.SetDefault("fetch.min_spacing", "500ms")
	v.SetDefault("fetch.cache_ttl", "5m")
	v.SetDefault("fetch.max_body_bytes", 5<<20)

	// Aggregation defaults
	v.SetDefault("aggregation.budget", "60s")
	v.SetDefault("aggregation.max_results_per_source", 5)

	// Store defaults
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Cache defaults
	v.SetDefault("cache.sweep_schedule", "@every 10m")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Store.Driver {
	case "none":
	case "postgres", "sqlite":
		if config.Store.DatabaseURL == "" {
			return eris.Errorf("database URL is required when store driver is '%s' (set DEALSCOUT_STORE_DATABASE_URL)", config.Store.Driver)
		}
	default:
		return eris.Errorf("store driver must be 'none', 'postgres' or 'sqlite', got: %s", config.Store.Driver)
	}

	if config.Fetch.MaxAttempts < 1 {
		return eris.Errorf("fetch max attempts must be at least 1, got: %d", config.Fetch.MaxAttempts)
	}
	if config.Fetch.Timeout <= 0 {
		return eris.New("fetch timeout must be positive")
	}
	if config.Fetch.RetryDelay < 0 || config.Fetch.MinSpacing < 0 {
		return eris.New("fetch retry delay and min spacing must not be negative")
	}
	if config.Fetch.CacheTTL <= 0 {
		return eris.New("fetch cache TTL must be positive")
	}
	if config.Aggregation.Budget <= 0 {
		return eris.New("aggregation budget must be positive")
	}
	if config.Aggregation.MaxResultsPerSource < 1 {
		return eris.Errorf("max results per source must be at least 1, got: %d", config.Aggregation.MaxResultsPerSource)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return eris.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 {
		return eris.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return eris.Wrap(err, "error loading .env file")
	}
	return nil
}

func splitOrigins(origins []string) []string {
	var out []string
	for _, o := range origins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// InitLogger installs the global zap logger
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
