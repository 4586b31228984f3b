// Package main provides the one-shot training CLI: fetch, train, persist.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JustinSu11/clutch-call-sub000/internal/config"
	"github.com/JustinSu11/clutch-call-sub000/internal/feed"
	"github.com/JustinSu11/clutch-call-sub000/internal/logger"
	"github.com/JustinSu11/clutch-call-sub000/internal/predictor"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
	"github.com/JustinSu11/clutch-call-sub000/internal/service"
	"github.com/JustinSu11/clutch-call-sub000/internal/store"
)

var (
	configFile string
	fromStore  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&fromStore, "from-store", false, "Train from the persisted history instead of the feed")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Run one training cycle",
	Long:  `Fetches the configured seasons, replays them through the rating engine, fits the outcome classifier, and persists the artifact when a database is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	feedClient := feed.NewClient(feed.ClientConfig{
		BaseURL:     cfg.Feed.BaseURL,
		APIKey:      cfg.Feed.APIKey,
		Competition: cfg.Feed.Competition,
		HTTP: feed.HTTPClientConfig{
			Timeout:           time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
			MaxRetries:        cfg.Feed.MaxRetries,
			RetryWaitMin:      100 * time.Millisecond,
			RetryWaitMax:      10 * time.Second,
			RateLimit:         cfg.Feed.RateLimit,
			CircuitBreakerMax: 5,
		},
	}, appLogger)
	defer feedClient.Close()

	var matchRepo store.MatchRepository
	var modelRepo store.ModelRepository
	if cfg.Database.Enabled {
		db, err := store.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		matchRepo = store.NewPostgresMatchRepository(db)
		modelRepo = store.NewPostgresModelRepository(db)
	}

	pred := predictor.NewService(predictor.Config{
		DefaultLastN:       cfg.Serving.DefaultLastN,
		H2HWindow:          cfg.Serving.LiveH2HWindow,
		CloseBandThreshold: cfg.Engine.CloseBandThreshold,
		CacheTTL:           time.Duration(cfg.Serving.CacheTTLSeconds) * time.Second,
		CacheMaxSize:       cfg.Serving.CacheMaxSize,
	}, rating.Params{
		KFactor:       cfg.Engine.KFactor,
		HomeAdvantage: cfg.Engine.HomeAdvantage,
		EWMAlpha:      cfg.Engine.EWMAlpha,
	}, appLogger)

	pipeline := service.NewPipeline(cfg, feedClient, matchRepo, modelRepo, pred, appLogger)

	if fromStore {
		if err := pipeline.RunFromStore(ctx); err != nil {
			return err
		}
	} else if err := pipeline.Run(ctx); err != nil {
		return err
	}

	info, err := pred.Info()
	if err != nil {
		return err
	}
	appLogger.WithFields(logrus.Fields{
		"model_id": info.ModelID,
		"matches":  info.NMatches,
	}).Info("Training run finished")

	return nil
}
