// Package config provides configuration management for the Clutch Call engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
// and falls back to defaults for anything the file leaves out.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("CLUTCH_CALL")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values for optional fields so a minimal
// config file is enough to run the engine.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clutch-call")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("feed.base_url", "https://api.football-data.org/v4")
	v.SetDefault("feed.competition", "PL")
	v.SetDefault("feed.timeout_seconds", 30)
	v.SetDefault("feed.max_retries", 5)
	// The public feed allows 10 calls per minute.
	v.SetDefault("feed.rate_limit", 0.15)

	v.SetDefault("engine.k_factor", 20.0)
	v.SetDefault("engine.home_advantage", 60.0)
	v.SetDefault("engine.ewm_alpha", 0.3)
	v.SetDefault("engine.min_history_matches", 5)
	v.SetDefault("engine.close_band_threshold", 25.0)
	v.SetDefault("engine.h2h_window", 5)

	v.SetDefault("training.trees", 300)
	v.SetDefault("training.max_depth", 3)
	v.SetDefault("training.learning_rate", 0.1)
	v.SetDefault("training.subsample", 0.8)
	v.SetDefault("training.l2_lambda", 1.0)
	v.SetDefault("training.seed", 42)

	v.SetDefault("serving.default_last_n", 10)
	v.SetDefault("serving.live_h2h_window", 10)
	v.SetDefault("serving.cache_ttl_seconds", 300)
	v.SetDefault("serving.cache_max_size", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.historical_sync", "0 4 * * *")
	v.SetDefault("schedule.fixture_polling_interval_seconds", 900)
}

// Reload re-reads the configuration file and swaps it into cfg. The new
// configuration is validated before the swap, so a bad edit leaves the
// running settings untouched.
func Reload(cfg *Config, configPath string) error {
	newCfg, err := Load(configPath)
	if err != nil {
		return err
	}
	if err := Validate(newCfg); err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}
