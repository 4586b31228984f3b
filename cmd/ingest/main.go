// Package main provides the ingest daemon: scheduled history syncs with a
// metrics endpoint, retraining the served model after each sync.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/config"
	"github.com/JustinSu11/clutch-call-sub000/internal/feed"
	"github.com/JustinSu11/clutch-call-sub000/internal/logger"
	"github.com/JustinSu11/clutch-call-sub000/internal/metrics"
	"github.com/JustinSu11/clutch-call-sub000/internal/predictor"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
	"github.com/JustinSu11/clutch-call-sub000/internal/scheduler"
	"github.com/JustinSu11/clutch-call-sub000/internal/service"
	"github.com/JustinSu11/clutch-call-sub000/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	runOnStart := flag.Bool("run-on-start", true, "Run a sync immediately before scheduling")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load secrets: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
			appLogger.WithError(err).Fatal("Failed to connect to database")
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

	if *runOnStart {
		if err := pipeline.Run(ctx); err != nil {
			appLogger.WithError(err).Error("Initial sync failed; continuing with scheduler")
		}
	}

	sched := scheduler.NewScheduler(pipeline, appLogger)
	if err := sched.ScheduleHistorySync(cfg.Schedule.HistoricalSync); err != nil {
		appLogger.WithError(err).Fatal("Failed to schedule history sync")
	}
	if err := sched.ScheduleFixturePolling(cfg.Schedule.FixturePollingIntervalSeconds, feedClient, cfg.Feed.Seasons); err != nil {
		appLogger.WithError(err).Fatal("Failed to schedule fixture polling")
	}
	if err := sched.Start(); err != nil {
		appLogger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if !pred.Ready() {
				http.Error(w, "model not ready", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		})
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLogger.WithFields(logrus.Fields{
				"port": cfg.Metrics.Port,
				"path": cfg.Metrics.Path,
			}).Info("Metrics endpoint listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	appLogger.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Ingest daemon running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		if err := config.Reload(cfg, *configPath); err != nil {
			appLogger.WithError(err).Warn("Config reload failed, keeping current settings")
			continue
		}
		if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
			appLogger.SetLevel(level)
		}
		appLogger.WithField("log_level", cfg.App.LogLevel).Info("Configuration reloaded")
	}

	appLogger.Info("Shutting down")
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}
}
