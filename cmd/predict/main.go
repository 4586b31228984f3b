// Package main provides the prediction CLI: train once from the feed, then
// answer matchup queries.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JustinSu11/clutch-call-sub000/internal/config"
	"github.com/JustinSu11/clutch-call-sub000/internal/feed"
	"github.com/JustinSu11/clutch-call-sub000/internal/logger"
	"github.com/JustinSu11/clutch-call-sub000/internal/models"
	"github.com/JustinSu11/clutch-call-sub000/internal/predictor"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
	"github.com/JustinSu11/clutch-call-sub000/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	lastN      int
	appLogger  *logrus.Logger
	cfg        *config.Config
	pred       *predictor.Service
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	predictCmd.Flags().IntVarP(&lastN, "last-n", "n", 0, "Form window size (0 = configured default)")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Match outcome prediction CLI",
	Long:  `Fetches the configured seasons of match history, trains the outcome classifier, and answers matchup queries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setup(cmd.Context()); err != nil {
			return err
		}
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "match <home team> <away team>",
	Short: "Predict the outcome of a matchup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := pred.Predict(args[0], args[1], lastN)
		if err != nil {
			if errors.Is(err, models.ErrSameTeamMatchup) {
				return fmt.Errorf("home and away resolve to the same team: %s", pred.Canonicalize(args[0]))
			}
			return err
		}

		printUnresolved(args[0])
		printUnresolved(args[1])

		home, draw, away := result.FairOdds()
		fmt.Printf("\n%s vs %s\n", result.HomeTeam, result.AwayTeam)
		fmt.Printf("  %-10s %6.1f%%  (fair odds %s)\n", "Home win", result.HomeWin*100, home)
		fmt.Printf("  %-10s %6.1f%%  (fair odds %s)\n", "Draw", result.Draw*100, draw)
		fmt.Printf("  %-10s %6.1f%%  (fair odds %s)\n", "Away win", result.HomeLoss*100, away)
		return nil
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams the model knows about",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, team := range pred.AvailableTeams() {
			fmt.Println(team)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show details about the trained model",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := pred.Info()
		if err != nil {
			return err
		}
		fmt.Printf("Model:      %s\n", info.ModelID)
		fmt.Printf("Matches:    %d\n", info.NMatches)
		fmt.Printf("Range:      %s to %s\n", info.FirstMatch.Format("2006-01-02"), info.LastMatch.Format("2006-01-02"))
		fmt.Printf("Trained at: %s\n", info.TrainedAt.Format(time.RFC3339))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predict %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setup loads config, trains from the feed, and leaves the predictor ready.
func setup(ctx context.Context) error {
	var err error
	cfg, err = loadConfigWithSecrets(configFile)
	if err != nil {
		return err
	}
	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

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

	pred = predictor.NewService(predictor.Config{
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

	pipeline := service.NewPipeline(cfg, feedClient, nil, nil, pred, appLogger)
	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}

func loadConfigWithSecrets(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printUnresolved warns when an input name passed through unresolved and
// offers close roster names.
func printUnresolved(input string) {
	resolved := pred.Canonicalize(input)
	if resolved != input {
		return
	}
	for _, team := range pred.AvailableTeams() {
		if team == input {
			return
		}
	}
	if suggestions := pred.Suggest(input); len(suggestions) > 0 {
		fmt.Printf("Note: %q is not in the roster. Did you mean: %s?\n", input, strings.Join(suggestions, ", "))
	}
}
