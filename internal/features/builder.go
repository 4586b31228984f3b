package features

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
	"github.com/JustinSu11/clutch-call-sub000/internal/rating"
)

// BuilderConfig configures the walk-forward pass.
type BuilderConfig struct {
	// MinHistoryMatches is the number of prior appearances both teams need
	// before a match is eligible to emit a feature row.
	MinHistoryMatches int

	// H2HWindow is the number of prior meetings the head-to-head features
	// look back over.
	H2HWindow int

	// CloseBandThreshold is the |elo_diff| bound for the close-match flag.
	CloseBandThreshold float64
}

// DefaultBuilderConfig returns the tuned walk-forward parameters.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MinHistoryMatches:  5,
		H2HWindow:          5,
		CloseBandThreshold: 25.0,
	}
}

// Builder replays a match history in strict chronological order, emitting one
// feature row per eligible match and advancing rating state for every match.
type Builder struct {
	cfg    BuilderConfig
	logger *logrus.Logger
}

// NewBuilder creates a walk-forward builder.
func NewBuilder(cfg BuilderConfig, logger *logrus.Logger) *Builder {
	if cfg.MinHistoryMatches <= 0 {
		cfg.MinHistoryMatches = 5
	}
	if cfg.H2HWindow <= 0 {
		cfg.H2HWindow = 5
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Build runs the walk-forward pass over the given matches. Input order does
// not matter; matches are re-sorted by (date, id) before the replay.
// Unfinished matches are dropped. Every value in an emitted row derives only
// from matches strictly earlier than that row's match date; the rating engine
// is stepped for every finished match, warm-ups included.
func (b *Builder) Build(matches []models.Match, engine *rating.Engine) []models.FeatureRow {
	history := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Result() != models.OutcomeUnknown {
			history = append(history, m)
		}
	}
	models.SortMatches(history)

	var rows []models.FeatureRow
	appearances := make(map[string][]models.Match)
	meetings := make(map[string][]models.Match)
	warmups := 0

	// cut is the index of the first match not yet folded into the prior
	// maps; it trails the loop so same-date matches never see each other.
	cut := 0
	for _, m := range history {
		for cut < len(history) && history[cut].Date.Before(m.Date) {
			prior := history[cut]
			appearances[prior.HomeTeam] = append(appearances[prior.HomeTeam], prior)
			appearances[prior.AwayTeam] = append(appearances[prior.AwayTeam], prior)
			key := pairKey(prior.HomeTeam, prior.AwayTeam)
			meetings[key] = append(meetings[key], prior)
			cut++
		}

		homePrior := appearances[m.HomeTeam]
		awayPrior := appearances[m.AwayTeam]
		if len(homePrior) < b.cfg.MinHistoryMatches || len(awayPrior) < b.cfg.MinHistoryMatches {
			// Warm-up match: no row, but state still advances below.
			warmups++
		} else {
			rows = append(rows, b.buildRow(m, homePrior, awayPrior, meetings[pairKey(m.HomeTeam, m.AwayTeam)], engine))
		}

		engine.ApplyMatch(m)
	}

	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{
			"matches":  len(history),
			"rows":     len(rows),
			"warm_ups": warmups,
		}).Info("Walk-forward feature pass completed")
	}

	return rows
}

// buildRow assembles one feature row from pre-match state. The rating engine
// must not have been stepped with the match yet.
func (b *Builder) buildRow(m models.Match, homePrior, awayPrior, pairHistory []models.Match, engine *rating.Engine) models.FeatureRow {
	homeWindow := lastN(homePrior, b.cfg.MinHistoryMatches)
	awayWindow := lastN(awayPrior, b.cfg.MinHistoryMatches)
	h2hWindow := lastN(pairHistory, b.cfg.H2HWindow)

	homeSnap := engine.State(m.HomeTeam).Snapshot()
	awaySnap := engine.State(m.AwayTeam).Snapshot()

	eloHome := homeSnap.Elo + engine.Params().HomeAdvantage
	eloAway := awaySnap.Elo
	eloDiff := eloHome - eloAway

	return models.FeatureRow{
		MatchID:      m.ID,
		Date:         m.Date,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		HomeForm:     TeamFormFeatures(homeWindow, m.HomeTeam),
		AwayForm:     TeamFormFeatures(awayWindow, m.AwayTeam),
		EloHome:      eloHome,
		EloAway:      eloAway,
		EloDiff:      eloDiff,
		EloCloseBand: CloseBand(eloDiff, b.cfg.CloseBandThreshold),
		HomeSnapshot: homeSnap,
		AwaySnapshot: awaySnap,
		H2H:          HeadToHeadFeatures(h2hWindow, m.HomeTeam, m.AwayTeam),
		Label:        m.Result(),
	}
}

// CloseBand returns 1.0 when the Elo difference falls within the close-match
// band, else 0.0.
func CloseBand(eloDiff, threshold float64) float64 {
	if math.Abs(eloDiff) <= threshold {
		return 1.0
	}
	return 0.0
}

func lastN(matches []models.Match, n int) []models.Match {
	if len(matches) > n {
		return matches[len(matches)-n:]
	}
	return matches
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
