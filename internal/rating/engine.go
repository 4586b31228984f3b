// Package rating maintains per-team strength and form state: an Elo-style
// rating plus exponentially weighted moving averages of goals and points.
package rating

import (
	"math"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// Default priors assigned to a team on first reference.
const (
	DefaultElo             = 1500.0
	DefaultEWMGoalsFor     = 1.4
	DefaultEWMGoalsAgainst = 1.4
	DefaultEWMPoints       = 1.3
)

// Params are the fixed update-rule constants.
type Params struct {
	KFactor       float64
	HomeAdvantage float64
	EWMAlpha      float64
}

// DefaultParams returns the tuned constants.
func DefaultParams() Params {
	return Params{
		KFactor:       20.0,
		HomeAdvantage: 60.0,
		EWMAlpha:      0.3,
	}
}

// TeamState is the mutable per-team accumulator. It is created lazily on
// first reference and updated exactly once per match the team plays, in
// chronological order.
type TeamState struct {
	Elo             float64
	EWMGoalsFor     float64
	EWMGoalsAgainst float64
	EWMPoints       float64
}

// Snapshot returns a point-in-time copy of the state.
func (s *TeamState) Snapshot() models.RatingSnapshot {
	return models.RatingSnapshot{
		Elo:             s.Elo,
		EWMGoalsFor:     s.EWMGoalsFor,
		EWMGoalsAgainst: s.EWMGoalsAgainst,
		EWMPoints:       s.EWMPoints,
	}
}

// Engine owns the map from team identity to rating state. It has no hidden
// global state; callers step it once per match in date order.
type Engine struct {
	params Params
	teams  map[string]*TeamState
}

// NewEngine creates an empty rating engine.
func NewEngine(params Params) *Engine {
	return &Engine{
		params: params,
		teams:  make(map[string]*TeamState),
	}
}

// State returns the state for a team, creating it with default priors on
// first reference.
func (e *Engine) State(team string) *TeamState {
	if s, ok := e.teams[team]; ok {
		return s
	}
	s := &TeamState{
		Elo:             DefaultElo,
		EWMGoalsFor:     DefaultEWMGoalsFor,
		EWMGoalsAgainst: DefaultEWMGoalsAgainst,
		EWMPoints:       DefaultEWMPoints,
	}
	e.teams[team] = s
	return s
}

// Params returns the engine's update-rule constants.
func (e *Engine) Params() Params {
	return e.params
}

// ExpectedScore returns the home team's win expectancy including the
// home-field advantage bonus.
func (e *Engine) ExpectedScore(home, away string) float64 {
	diff := (e.State(home).Elo + e.params.HomeAdvantage) - e.State(away).Elo
	return 1.0 / (1.0 + math.Pow(10, -diff/400.0))
}

// ApplyMatch advances the state for both teams with the match's actual
// result. The Elo transfer is zero-sum: the delta applied to the home team is
// the exact negative of the away team's delta.
func (e *Engine) ApplyMatch(m models.Match) {
	home := e.State(m.HomeTeam)
	away := e.State(m.AwayTeam)

	var resultHome float64
	switch m.Result() {
	case models.OutcomeHome:
		resultHome = 1.0
	case models.OutcomeDraw:
		resultHome = 0.5
	case models.OutcomeAway:
		resultHome = 0.0
	default:
		return // unfinished matches never advance state
	}

	expected := e.ExpectedScore(m.HomeTeam, m.AwayTeam)
	delta := e.params.KFactor * (resultHome - expected)
	home.Elo += delta
	away.Elo -= delta

	alpha := e.params.EWMAlpha
	home.EWMGoalsFor = ewm(alpha, float64(m.HomeScore), home.EWMGoalsFor)
	home.EWMGoalsAgainst = ewm(alpha, float64(m.AwayScore), home.EWMGoalsAgainst)
	home.EWMPoints = ewm(alpha, m.PointsFor(m.HomeTeam), home.EWMPoints)

	away.EWMGoalsFor = ewm(alpha, float64(m.AwayScore), away.EWMGoalsFor)
	away.EWMGoalsAgainst = ewm(alpha, float64(m.HomeScore), away.EWMGoalsAgainst)
	away.EWMPoints = ewm(alpha, m.PointsFor(m.AwayTeam), away.EWMPoints)
}

func ewm(alpha, observed, previous float64) float64 {
	return alpha*observed + (1-alpha)*previous
}

// Snapshot returns an immutable copy of every team's current state, keyed by
// canonical team name.
func (e *Engine) Snapshot() map[string]models.RatingSnapshot {
	out := make(map[string]models.RatingSnapshot, len(e.teams))
	for team, s := range e.teams {
		out[team] = s.Snapshot()
	}
	return out
}

// Restore replaces the engine's state with a previously taken snapshot.
func (e *Engine) Restore(snapshot map[string]models.RatingSnapshot) {
	e.teams = make(map[string]*TeamState, len(snapshot))
	for team, s := range snapshot {
		e.teams[team] = &TeamState{
			Elo:             s.Elo,
			EWMGoalsFor:     s.EWMGoalsFor,
			EWMGoalsAgainst: s.EWMGoalsAgainst,
			EWMPoints:       s.EWMPoints,
		}
	}
}
