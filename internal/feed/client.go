// Package feed fetches match data from the remote football data API and maps
// it into the internal match model.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// Match statuses understood by the remote API.
const (
	StatusFinished  = "FINISHED"
	StatusScheduled = "SCHEDULED"
)

// ClientConfig configures the feed client.
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Competition string
	HTTP        HTTPClientConfig
}

// Client talks to the football data API. All fetch failures that reach the
// caller are wrapped in models.ErrFeedUnavailable so the training pipeline can
// fail fast on a single errors.Is check.
type Client struct {
	cfg    ClientConfig
	http   *RateLimitedHTTPClient
	logger *logrus.Logger
}

// NewClient creates a feed client.
func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	var stdLogger *log.Logger
	if logger != nil {
		stdLogger = log.New(logger.Writer(), "", 0)
	}
	return &Client{
		cfg:    cfg,
		http:   NewRateLimitedHTTPClient(cfg.HTTP, stdLogger),
		logger: logger,
	}
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// matchesResponse mirrors the remote API's season-matches payload. Score
// fields are pointers because the API sends null for matches not yet played.
type matchesResponse struct {
	Matches []struct {
		ID       int64     `json:"id"`
		UTCDate  time.Time `json:"utcDate"`
		Matchday int       `json:"matchday"`
		Status   string    `json:"status"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		Score struct {
			Winner   *string `json:"winner"`
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
	} `json:"matches"`
}

// FetchSeason fetches one season of the configured competition, filtered by
// match status. Finished matches missing a full-time score are dropped; a 404
// for the season yields an empty slice rather than an error.
func (c *Client) FetchSeason(ctx context.Context, season int, status string) ([]models.Match, error) {
	url := fmt.Sprintf("%s/competitions/%s/matches?season=%d&status=%s",
		c.cfg.BaseURL, c.cfg.Competition, season, status)

	headers := http.Header{}
	headers.Set("X-Auth-Token", c.cfg.APIKey)

	resp, err := c.http.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: season %d: %v", models.ErrFeedUnavailable, season, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Season not published yet; treat as empty, not an outage.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: season %d: unexpected status %d", models.ErrFeedUnavailable, season, resp.StatusCode)
	}

	var payload matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: season %d: decoding response: %v", models.ErrFeedUnavailable, season, err)
	}

	matches := make([]models.Match, 0, len(payload.Matches))
	dropped := 0
	for _, raw := range payload.Matches {
		finished := raw.Status == StatusFinished
		m := models.Match{
			ID:       raw.ID,
			Date:     raw.UTCDate,
			Matchday: raw.Matchday,
			HomeTeam: raw.HomeTeam.Name,
			AwayTeam: raw.AwayTeam.Name,
			Finished: finished,
		}
		if finished {
			if raw.Score.FullTime.Home == nil || raw.Score.FullTime.Away == nil {
				dropped++
				continue
			}
			m.HomeScore = *raw.Score.FullTime.Home
			m.AwayScore = *raw.Score.FullTime.Away
			if raw.Score.Winner != nil {
				m.Winner = mapWinner(*raw.Score.Winner)
			}
		}
		matches = append(matches, m)
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"season":  season,
			"status":  status,
			"matches": len(matches),
			"dropped": dropped,
		}).Debug("Fetched season from feed")
	}

	return matches, nil
}

// mapWinner translates the remote winner indicator into the internal outcome.
func mapWinner(winner string) models.Outcome {
	switch winner {
	case "HOME_TEAM":
		return models.OutcomeHome
	case "AWAY_TEAM":
		return models.OutcomeAway
	case "DRAW":
		return models.OutcomeDraw
	default:
		return models.OutcomeUnknown
	}
}

// FetchSeasons fetches several seasons and merges the results. Any single
// season failure aborts the whole fetch.
func (c *Client) FetchSeasons(ctx context.Context, seasons []int, status string) ([]models.Match, error) {
	var all []models.Match
	for _, season := range seasons {
		matches, err := c.FetchSeason(ctx, season, status)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	return all, nil
}
