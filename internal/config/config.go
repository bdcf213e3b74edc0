// Package config loads service configuration from a YAML file and FEA_*
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the controller and worker.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `mapstructure:"database_url"`

	// HTTPPort is the controller API port.
	HTTPPort int `mapstructure:"http_port"`

	// MetricsPort is the worker's standalone metrics/health port.
	MetricsPort int `mapstructure:"metrics_port"`

	// OTELEndpoint is the OTLP gRPC collector address. Empty disables
	// trace export.
	OTELEndpoint string `mapstructure:"otel_endpoint"`

	// RateLimit and RateLimitBurst throttle the public API. 0 disables
	// limiting.
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	// Worker settings.
	WorkerPollInterval time.Duration `mapstructure:"worker_poll_interval"`
	EngineMode         string        `mapstructure:"engine_mode"` // "http" or "exec"
	EngineURL          string        `mapstructure:"engine_url"`
	EngineCommand      []string      `mapstructure:"engine_command"`
	EngineTimeout      time.Duration `mapstructure:"engine_timeout"`
	WorkDir            string        `mapstructure:"workdir"`
	RunnerScript       string        `mapstructure:"runner_script"`
	RetainWorkdir      bool          `mapstructure:"retain_workdir"`
	MaxDiagnosticLen   int           `mapstructure:"max_diagnostic_len"`

	// Blob storage for artifacts. Leaving the bucket or keys empty runs
	// the system without durable artifact storage.
	StorageEndpoint  string `mapstructure:"storage_endpoint"`
	StorageRegion    string `mapstructure:"storage_region"`
	StorageBucket    string `mapstructure:"storage_bucket"`
	StorageAccessKey string `mapstructure:"storage_access_key"`
	StorageSecretKey string `mapstructure:"storage_secret_key"`

	// ArtifactTTL is the default signed URL lifetime in seconds.
	ArtifactTTL int `mapstructure:"artifact_ttl"`
}

// Load reads configuration from the given file (or feaplane.yaml in the
// current directory when empty), layered under FEA_* environment
// variables. Environment always wins.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal.
	v.SetDefault("database_url", "")
	v.SetDefault("otel_endpoint", "")
	v.SetDefault("engine_command", []string{})
	v.SetDefault("storage_endpoint", "")
	v.SetDefault("storage_bucket", "")
	v.SetDefault("storage_access_key", "")
	v.SetDefault("storage_secret_key", "")
	v.SetDefault("http_port", 8000)
	v.SetDefault("metrics_port", 8001)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("worker_poll_interval", 5*time.Second)
	v.SetDefault("engine_mode", "http")
	v.SetDefault("engine_url", "http://localhost:5000")
	v.SetDefault("engine_timeout", 1800*time.Second)
	v.SetDefault("workdir", "jobs")
	v.SetDefault("runner_script", "")
	v.SetDefault("retain_workdir", false)
	v.SetDefault("max_diagnostic_len", 10000)
	v.SetDefault("storage_region", "auto")
	v.SetDefault("artifact_ttl", 3600)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("feaplane")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FEA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env-only deployments are common.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is required (FEA_DATABASE_URL)")
	}
	if cfg.EngineMode != "http" && cfg.EngineMode != "exec" {
		return nil, fmt.Errorf("engine_mode must be \"http\" or \"exec\", got %q", cfg.EngineMode)
	}
	if cfg.EngineMode == "exec" && len(cfg.EngineCommand) == 0 {
		return nil, fmt.Errorf("engine_command is required when engine_mode is \"exec\"")
	}
	if cfg.ArtifactTTL <= 0 {
		return nil, fmt.Errorf("artifact_ttl must be positive, got %d", cfg.ArtifactTTL)
	}

	return &cfg, nil
}
