// Package service orchestrates the training pipeline: fetch, replay, fit,
// swap.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/classifier"
	"github.com/JustinSu11/clutch-call-sub000/internal/config"
	"github.com/JustinSu11/clutch-call-sub000/internal/features"
	"github.com/JustinSu11/clutch-call-sub000/internal/feed"
	"github.com/JustinSu11/clutch-call-sub000/internal/metrics"
	"github.com/JustinSu11/clutch-call-sub000/internal/models"
	"github.com/JustinSu11/clutch-call-sub000/internal/predictor"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
	"github.com/JustinSu11/clutch-call-sub000/internal/store"
)

// MatchSource abstracts where the pipeline gets finished matches from. The
// feed client satisfies it in production; tests supply fixtures.
type MatchSource interface {
	FetchSeasons(ctx context.Context, seasons []int, status string) ([]models.Match, error)
}

// Pipeline runs the end-to-end training flow and installs the result in the
// predictor. A failed run leaves the previously served model untouched.
type Pipeline struct {
	cfg       *config.Config
	source    MatchSource
	matchRepo store.MatchRepository
	modelRepo store.ModelRepository
	predictor *predictor.Service
	logger    *logrus.Logger
}

// NewPipeline creates a training pipeline. matchRepo and modelRepo may be nil
// when the database is disabled.
func NewPipeline(cfg *config.Config, source MatchSource, matchRepo store.MatchRepository, modelRepo store.ModelRepository, pred *predictor.Service, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		matchRepo: matchRepo,
		modelRepo: modelRepo,
		predictor: pred,
		logger:    logger,
	}
}

// Run executes one training cycle: fetch every configured season, persist the
// history when a store is attached, replay it through the walk-forward
// builder, fit the classifier, and swap the serving state.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	matches, err := p.source.FetchSeasons(ctx, p.cfg.Feed.Seasons, feed.StatusFinished)
	if err != nil {
		metrics.RecordFeedRequest("failure")
		metrics.RecordTrainingRun("feed_failure", time.Since(start).Seconds())
		return err
	}
	metrics.RecordFeedRequest("success")

	if p.matchRepo != nil {
		if err := p.matchRepo.Upsert(ctx, matches); err != nil {
			// Persistence is best-effort; training proceeds in-memory.
			p.logger.WithError(err).Warn("Failed to persist match history")
		} else if total, err := p.matchRepo.Count(ctx); err == nil {
			p.logger.WithField("stored_matches", total).Debug("Match history persisted")
		}
	}

	artifact, snapshots, info, err := p.train(matches)
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return err
	}

	if p.modelRepo != nil {
		if err := p.modelRepo.Create(ctx, artifact); err != nil {
			p.logger.WithError(err).Warn("Failed to persist model artifact")
		} else if err := p.modelRepo.SetActive(ctx, artifact.ID); err != nil {
			p.logger.WithError(err).Warn("Failed to activate model artifact")
		}
	}

	p.predictor.Swap(artifact, snapshots, matches, info)
	metrics.RecordTrainingRun("success", time.Since(start).Seconds())

	p.logger.WithFields(logrus.Fields{
		"model_id": artifact.ID,
		"matches":  info.NMatches,
		"rows":     artifact.NRows,
		"duration": time.Since(start).String(),
	}).Info("Training pipeline completed")

	return nil
}

// train replays the history and fits a fresh classifier. The rating engine is
// rebuilt from scratch each run so state never leaks between models.
func (p *Pipeline) train(matches []models.Match) (*classifier.Artifact, map[string]models.RatingSnapshot, models.EngineInfo, error) {
	engine := rating.NewEngine(rating.Params{
		KFactor:       p.cfg.Engine.KFactor,
		HomeAdvantage: p.cfg.Engine.HomeAdvantage,
		EWMAlpha:      p.cfg.Engine.EWMAlpha,
	})

	builder := features.NewBuilder(features.BuilderConfig{
		MinHistoryMatches:  p.cfg.Engine.MinHistoryMatches,
		H2HWindow:          p.cfg.Engine.H2HWindow,
		CloseBandThreshold: p.cfg.Engine.CloseBandThreshold,
	}, p.logger)

	rows := builder.Build(matches, engine)

	artifact, err := classifier.Train(rows, classifier.TrainerConfig{
		Trees:        p.cfg.Training.Trees,
		MaxDepth:     p.cfg.Training.MaxDepth,
		LearningRate: p.cfg.Training.LearningRate,
		Subsample:    p.cfg.Training.Subsample,
		L2Lambda:     p.cfg.Training.L2Lambda,
		Seed:         p.cfg.Training.Seed,
	}, p.logger)
	if err != nil {
		return nil, nil, models.EngineInfo{}, err
	}

	finished := 0
	var first, last time.Time
	for _, m := range matches {
		if m.Result() == models.OutcomeUnknown {
			continue
		}
		if finished == 0 || m.Date.Before(first) {
			first = m.Date
		}
		if finished == 0 || m.Date.After(last) {
			last = m.Date
		}
		finished++
	}

	info := models.EngineInfo{
		NMatches:   finished,
		FirstMatch: first,
		LastMatch:  last,
		TrainedAt:  artifact.TrainedAt,
		ModelID:    artifact.ID,
	}

	return artifact, engine.Snapshot(), info, nil
}

// RunFromStore retrains from the persisted history instead of the feed, for
// warm restarts when the feed is unreachable.
func (p *Pipeline) RunFromStore(ctx context.Context) error {
	if p.matchRepo == nil {
		return models.ErrNoTrainingData
	}
	start := time.Now()

	matches, err := p.matchRepo.GetAll(ctx)
	if err != nil {
		metrics.RecordTrainingRun("store_failure", time.Since(start).Seconds())
		return err
	}

	artifact, snapshots, info, err := p.train(matches)
	if err != nil {
		metrics.RecordTrainingRun("failure", time.Since(start).Seconds())
		return err
	}

	p.predictor.Swap(artifact, snapshots, matches, info)
	metrics.RecordTrainingRun("success", time.Since(start).Seconds())
	return nil
}
