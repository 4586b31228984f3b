package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "clutch-call",
			Environment: "development",
			LogLevel:    "info",
		},
		Feed: FeedConfig{
			BaseURL:        "https://api.football-data.org/v4",
			Competition:    "PL",
			Seasons:        []int{2023, 2024},
			TimeoutSeconds: 30,
			MaxRetries:     5,
			RateLimit:      0.15,
		},
		Engine: EngineConfig{
			KFactor:            20,
			HomeAdvantage:      60,
			EWMAlpha:           0.3,
			MinHistoryMatches:  5,
			CloseBandThreshold: 25,
			H2HWindow:          5,
		},
		Training: TrainingConfig{
			Trees:        300,
			MaxDepth:     3,
			LearningRate: 0.1,
			Subsample:    0.8,
			L2Lambda:     1.0,
			Seed:         42,
		},
		Serving: ServingConfig{
			DefaultLastN:    10,
			LiveH2HWindow:   10,
			CacheTTLSeconds: 300,
			CacheMaxSize:    1000,
		},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "clutch-call", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.15, cfg.Feed.RateLimit)
	assert.Equal(t, 20.0, cfg.Engine.KFactor)
	assert.Equal(t, 60.0, cfg.Engine.HomeAdvantage)
	assert.Equal(t, 0.3, cfg.Engine.EWMAlpha)
	assert.Equal(t, 5, cfg.Engine.MinHistoryMatches)
	assert.Equal(t, 300, cfg.Training.Trees)
	assert.Equal(t, 0.1, cfg.Training.LearningRate)
	assert.Equal(t, 10, cfg.Serving.DefaultLastN)
	assert.Equal(t, "0 4 * * *", cfg.Schedule.HistoricalSync)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_FEED_KEY", "secret-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  name: clutch-call
feed:
  api_key: ${TEST_FEED_KEY}
  seasons: [2024]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Feed.APIKey)
	assert.Equal(t, []int{2024}, cfg.Feed.Seasons)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "qa" }},
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }},
		{"no seasons", func(c *Config) { c.Feed.Seasons = nil }},
		{"season out of range", func(c *Config) { c.Feed.Seasons = []int{1899} }},
		{"bad base url", func(c *Config) { c.Feed.BaseURL = "not a url" }},
		{"zero k factor", func(c *Config) { c.Engine.KFactor = 0 }},
		{"alpha above one", func(c *Config) { c.Engine.EWMAlpha = 1.5 }},
		{"history gate too high", func(c *Config) { c.Engine.MinHistoryMatches = 50 }},
		{"zero trees", func(c *Config) { c.Training.Trees = 0 }},
		{"db enabled without host", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Name = "clutch_call"
			c.Database.User = "clutch_call"
		}},
		{"prod without api key", func(c *Config) { c.App.Environment = "production" }},
		{"prod db without ssl", func(c *Config) {
			c.App.Environment = "production"
			c.Feed.APIKey = "key"
			c.Database.Enabled = true
			c.Database.Host = "localhost"
			c.Database.Name = "clutch_call"
			c.Database.User = "clutch_call"
			c.Database.SSLMode = "disable"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestReloadSwapsValidatedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: info\nfeed:\n  seasons: [2024]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: debug\nfeed:\n  seasons: [2024]\n"), 0o644))
	require.NoError(t, Reload(cfg, path))
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestReloadRejectsInvalidEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: info\nfeed:\n  seasons: [2024]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// An invalid edit must leave the running configuration untouched.
	require.NoError(t, os.WriteFile(path, []byte("app:\n  environment: qa\nfeed:\n  seasons: [2024]\n"), 0o644))
	assert.Error(t, Reload(cfg, path))
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "clutch_call",
		User:     "svc",
		Password: "pw",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://svc:pw@localhost:5432/clutch_call?sslmode=disable", cfg.GetDatabaseDSN())
}
