// Package predictor serves live match-outcome predictions from the most
// recently trained model, recomputing features for the requested matchup on
// the fly.
package predictor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/classifier"
	"github.com/JustinSu11/clutch-call-sub000/internal/features"
	"github.com/JustinSu11/clutch-call-sub000/internal/metrics"
	"github.com/JustinSu11/clutch-call-sub000/internal/models"
	"github.com/JustinSu11/clutch-call-sub000/internal/names"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
)

// Config tunes the live serving path.
type Config struct {
	// DefaultLastN is the form window used when the caller does not ask
	// for a specific one.
	DefaultLastN int

	// H2HWindow is the number of prior meetings the live head-to-head
	// looks back over.
	H2HWindow int

	// CloseBandThreshold mirrors the training-time close-match band.
	CloseBandThreshold float64

	// CacheTTL bounds how long a served prediction may be reused.
	CacheTTL time.Duration

	// CacheMaxSize caps the number of cached predictions; the cache is
	// flushed once it fills.
	CacheMaxSize int
}

// DefaultConfig returns the serving defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLastN:       10,
		H2HWindow:          10,
		CloseBandThreshold: 25.0,
		CacheTTL:           10 * time.Minute,
		CacheMaxSize:       1000,
	}
}

// state is the immutable serving bundle swapped in atomically after each
// training run. Readers take a snapshot of the pointer and never see a
// half-updated model.
type state struct {
	artifact  *classifier.Artifact
	snapshots map[string]models.RatingSnapshot
	history   []models.Match
	info      models.EngineInfo
}

// Service answers prediction requests. It is safe for concurrent use; Swap
// replaces the entire serving state under the write lock while in-flight
// predictions finish against the previous state.
type Service struct {
	cfg          Config
	ratingParams rating.Params
	logger       *logrus.Logger

	mu    sync.RWMutex
	state *state
	canon *names.Canonicalizer
	cache *gocache.Cache
}

// NewService creates an empty predictor. It serves nothing until the first
// Swap installs a trained model.
func NewService(cfg Config, ratingParams rating.Params, logger *logrus.Logger) *Service {
	if cfg.DefaultLastN <= 0 {
		cfg.DefaultLastN = 10
	}
	if cfg.H2HWindow <= 0 {
		cfg.H2HWindow = 10
	}
	if cfg.CacheMaxSize <= 0 {
		cfg.CacheMaxSize = 1000
	}
	return &Service{
		cfg:          cfg,
		ratingParams: ratingParams,
		logger:       logger,
		canon:        names.NewCanonicalizer(nil),
		cache:        gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Swap atomically installs a freshly trained model together with the history
// and rating snapshots it was trained on. The prediction cache is flushed so
// no stale answer outlives the model that produced it.
func (s *Service) Swap(artifact *classifier.Artifact, snapshots map[string]models.RatingSnapshot, history []models.Match, info models.EngineInfo) {
	finished := make([]models.Match, 0, len(history))
	for _, m := range history {
		if m.Result() != models.OutcomeUnknown {
			finished = append(finished, m)
		}
	}
	models.SortMatches(finished)
	teams := models.Teams(finished)

	s.mu.Lock()
	s.state = &state{
		artifact:  artifact,
		snapshots: snapshots,
		history:   finished,
		info:      info,
	}
	s.canon.SetKnown(teams)
	s.mu.Unlock()

	s.cache.Flush()
	metrics.UpdateModelInfo(info.NMatches, artifact.NRows, len(teams), float64(info.TrainedAt.Unix()))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"model_id": artifact.ID,
			"matches":  info.NMatches,
			"teams":    len(teams),
		}).Info("Serving state swapped")
	}
}

// Ready reports whether a trained model is installed.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// Info returns metadata about the currently served model.
func (s *Service) Info() (models.EngineInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return models.EngineInfo{}, models.ErrModelNotReady
	}
	return s.state.info, nil
}

// AvailableTeams returns the sorted canonical roster of the served model.
func (s *Service) AvailableTeams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canon.Known()
}

// Canonicalize resolves a free-form team name against the served roster.
func (s *Service) Canonicalize(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canon.Canonicalize(name)
}

// Suggest lists roster names similar to the input for unresolved names.
func (s *Service) Suggest(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canon.Suggest(name)
}

// Predict computes outcome probabilities for a hypothetical fixture between
// two teams, home side first. lastN bounds the form window; pass 0 for the
// configured default.
func (s *Service) Predict(homeName, awayName string, lastN int) (*models.PredictionResult, error) {
	start := time.Now()
	if lastN <= 0 {
		lastN = s.cfg.DefaultLastN
	}

	s.mu.RLock()
	st := s.state
	home, homeMethod := s.canon.Resolve(homeName)
	away, awayMethod := s.canon.Resolve(awayName)
	s.mu.RUnlock()
	metrics.RecordNameResolution(homeMethod)
	metrics.RecordNameResolution(awayMethod)

	if st == nil {
		metrics.RecordPrediction("not_ready", time.Since(start).Seconds())
		return nil, models.ErrModelNotReady
	}
	if home == away {
		metrics.RecordPrediction("rejected", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", models.ErrSameTeamMatchup, home)
	}

	cacheKey := fmt.Sprintf("%s|%s|%d", home, away, lastN)
	if cached, ok := s.cache.Get(cacheKey); ok {
		metrics.RecordCacheHit()
		metrics.RecordPrediction("cache_hit", time.Since(start).Seconds())
		result := cached.(models.PredictionResult)
		return &result, nil
	}

	row := s.buildLiveRow(st, home, away, lastN)
	probs := st.artifact.PredictProba(row)
	homeWin, draw, homeLoss := splitProbabilities(probs)

	result := models.PredictionResult{
		ID:          uuid.New(),
		HomeTeam:    home,
		AwayTeam:    away,
		HomeWin:     homeWin,
		Draw:        draw,
		HomeLoss:    homeLoss,
		PredictedAt: time.Now().UTC(),
	}

	if s.cache.ItemCount() >= s.cfg.CacheMaxSize {
		s.cache.Flush()
	}
	s.cache.Set(cacheKey, result, gocache.DefaultExpiration)
	metrics.RecordPrediction("success", time.Since(start).Seconds())

	return &result, nil
}

// buildLiveRow assembles a feature row for the matchup from the served
// history tail and the training-time rating snapshots. Teams absent from the
// snapshot map fall back to the rating priors.
func (s *Service) buildLiveRow(st *state, home, away string, lastN int) models.FeatureRow {
	homeTail := features.TeamTail(st.history, home, lastN)
	awayTail := features.TeamTail(st.history, away, lastN)
	meetings := features.MeetingsTail(st.history, home, away, s.cfg.H2HWindow)

	homeSnap := snapshotOrPrior(st.snapshots, home)
	awaySnap := snapshotOrPrior(st.snapshots, away)

	eloHome := homeSnap.Elo + s.ratingParams.HomeAdvantage
	eloAway := awaySnap.Elo
	eloDiff := eloHome - eloAway

	return models.FeatureRow{
		HomeTeam:     home,
		AwayTeam:     away,
		HomeForm:     features.TeamFormFeatures(homeTail, home),
		AwayForm:     features.TeamFormFeatures(awayTail, away),
		EloHome:      eloHome,
		EloAway:      eloAway,
		EloDiff:      eloDiff,
		EloCloseBand: features.CloseBand(eloDiff, s.cfg.CloseBandThreshold),
		HomeSnapshot: homeSnap,
		AwaySnapshot: awaySnap,
		H2H:          features.HeadToHeadFeatures(meetings, home, away),
	}
}

func snapshotOrPrior(snapshots map[string]models.RatingSnapshot, team string) models.RatingSnapshot {
	if snap, ok := snapshots[team]; ok {
		return snap
	}
	return models.RatingSnapshot{
		Elo:             rating.DefaultElo,
		EWMGoalsFor:     rating.DefaultEWMGoalsFor,
		EWMGoalsAgainst: rating.DefaultEWMGoalsAgainst,
		EWMPoints:       rating.DefaultEWMPoints,
	}
}

// splitProbabilities maps labeled probabilities onto the home-win/draw/loss
// triple. Label spellings vary with the feed's winner vocabulary, so matching
// is by prefix after normalization. Unrecognized labels contribute nothing.
func splitProbabilities(probs map[string]float64) (homeWin, draw, homeLoss float64) {
	for label, p := range probs {
		switch normalized := strings.ToUpper(strings.TrimSpace(label)); {
		case strings.HasPrefix(normalized, "HOME"):
			homeWin += p
		case strings.HasPrefix(normalized, "AWAY"):
			homeLoss += p
		case strings.HasPrefix(normalized, "DRAW"):
			draw += p
		}
	}
	return homeWin, draw, homeLoss
}
