// Package config provides configuration management for the Clutch Call engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Feed     FeedConfig     `mapstructure:"feed" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Training TrainingConfig `mapstructure:"training" validate:"required"`
	Serving  ServingConfig  `mapstructure:"serving" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// FeedConfig represents the historical match feed configuration
type FeedConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Competition    string  `mapstructure:"competition" validate:"required"`
	Seasons        []int   `mapstructure:"seasons" validate:"required,min=1"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// DatabaseConfig represents the optional Postgres warm-restart store. The
// engine runs fully in-memory when Enabled is false.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// EngineConfig holds the rating and feature-building parameters. The defaults
// are the tuned values; they rarely need changing.
type EngineConfig struct {
	KFactor            float64 `mapstructure:"k_factor" validate:"gt=0"`
	HomeAdvantage      float64 `mapstructure:"home_advantage" validate:"gte=0"`
	EWMAlpha           float64 `mapstructure:"ewm_alpha" validate:"gt=0,lte=1"`
	MinHistoryMatches  int     `mapstructure:"min_history_matches" validate:"gt=0"`
	CloseBandThreshold float64 `mapstructure:"close_band_threshold" validate:"gte=0"`
	H2HWindow          int     `mapstructure:"h2h_window" validate:"gt=0"`
}

// TrainingConfig holds the classifier hyperparameters.
type TrainingConfig struct {
	Trees        int     `mapstructure:"trees" validate:"gt=0"`
	MaxDepth     int     `mapstructure:"max_depth" validate:"gt=0"`
	LearningRate float64 `mapstructure:"learning_rate" validate:"gt=0,lte=1"`
	Subsample    float64 `mapstructure:"subsample" validate:"gt=0,lte=1"`
	L2Lambda     float64 `mapstructure:"l2_lambda" validate:"gte=0"`
	Seed         int64   `mapstructure:"seed"`
}

// ServingConfig holds live-prediction settings.
type ServingConfig struct {
	DefaultLastN    int `mapstructure:"default_last_n" validate:"gt=0"`
	LiveH2HWindow   int `mapstructure:"live_h2h_window" validate:"gt=0"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int `mapstructure:"cache_max_size" validate:"gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents history-sync scheduling for the ingest daemon.
type ScheduleConfig struct {
	HistoricalSync                string `mapstructure:"historical_sync"`
	FixturePollingIntervalSeconds int    `mapstructure:"fixture_polling_interval_seconds" validate:"omitempty,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
