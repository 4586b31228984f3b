package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PredictionResult holds the class probabilities for a single matchup. The
// three probabilities sum to ~1.0.
type PredictionResult struct {
	ID          uuid.UUID `json:"id"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeWin     float64   `json:"home_win"`
	Draw        float64   `json:"draw"`
	HomeLoss    float64   `json:"home_loss"`
	PredictedAt time.Time `json:"predicted_at"`
}

// FairOdds converts the probabilities into fair decimal odds (no margin),
// rounded to two places. Zero-probability outcomes yield zero odds.
func (p PredictionResult) FairOdds() (home, draw, away decimal.Decimal) {
	return fairOdd(p.HomeWin), fairOdd(p.Draw), fairOdd(p.HomeLoss)
}

func fairOdd(prob float64) decimal.Decimal {
	if prob <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(1.0 / prob).Round(2)
}

// EngineInfo describes the training data behind the currently served model.
type EngineInfo struct {
	NMatches   int       `json:"n_matches"`
	FirstMatch time.Time `json:"first_match"`
	LastMatch  time.Time `json:"last_match"`
	TrainedAt  time.Time `json:"trained_at"`
	ModelID    uuid.UUID `json:"model_id"`
}
