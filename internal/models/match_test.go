package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchResult(t *testing.T) {
	tests := []struct {
		name  string
		match Match
		want  Outcome
	}{
		{"winner from feed", Match{Winner: OutcomeAway, Finished: true}, OutcomeAway},
		{"derived home win", Match{HomeScore: 2, AwayScore: 1, Finished: true}, OutcomeHome},
		{"derived away win", Match{HomeScore: 0, AwayScore: 3, Finished: true}, OutcomeAway},
		{"derived draw", Match{HomeScore: 1, AwayScore: 1, Finished: true}, OutcomeDraw},
		{"unfinished", Match{HomeScore: 0, AwayScore: 0, Finished: false}, OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.match.Result())
		})
	}
}

func TestMatchPerspectiveHelpers(t *testing.T) {
	m := Match{HomeTeam: "Arsenal FC", AwayTeam: "Chelsea FC", HomeScore: 2, AwayScore: 1, Finished: true}

	assert.True(t, m.Involves("Arsenal FC"))
	assert.True(t, m.Involves("Chelsea FC"))
	assert.False(t, m.Involves("Everton FC"))

	assert.Equal(t, 2, m.GoalsFor("Arsenal FC"))
	assert.Equal(t, 1, m.GoalsAgainst("Arsenal FC"))
	assert.Equal(t, 1, m.GoalsFor("Chelsea FC"))
	assert.Equal(t, 2, m.GoalsAgainst("Chelsea FC"))

	assert.Equal(t, 3.0, m.PointsFor("Arsenal FC"))
	assert.Equal(t, 0.0, m.PointsFor("Chelsea FC"))

	draw := Match{HomeTeam: "Arsenal FC", AwayTeam: "Chelsea FC", HomeScore: 1, AwayScore: 1, Finished: true}
	assert.Equal(t, 1.0, draw.PointsFor("Arsenal FC"))
	assert.Equal(t, 1.0, draw.PointsFor("Chelsea FC"))
}

func TestSortMatchesDateThenID(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	matches := []Match{
		{ID: 9, Date: day2},
		{ID: 3, Date: day1},
		{ID: 1, Date: day2},
		{ID: 7, Date: day1},
	}

	SortMatches(matches)

	ids := []int64{matches[0].ID, matches[1].ID, matches[2].ID, matches[3].ID}
	assert.Equal(t, []int64{3, 7, 1, 9}, ids)
}

func TestTeams(t *testing.T) {
	matches := []Match{
		{HomeTeam: "Chelsea FC", AwayTeam: "Arsenal FC"},
		{HomeTeam: "Arsenal FC", AwayTeam: "Everton FC"},
	}

	assert.Equal(t, []string{"Arsenal FC", "Chelsea FC", "Everton FC"}, Teams(matches))
}

func TestFeatureRowVector(t *testing.T) {
	row := FeatureRow{
		EloHome: 1560,
		EloAway: 1500,
		EloDiff: 60,
		H2H:     HeadToHead{AvgGoals: 2.5},
	}

	columns := FeatureColumns()
	vec := row.Vector(columns)
	assert.Len(t, vec, len(columns))

	byName := row.Values()
	for i, col := range columns {
		assert.Equal(t, byName[col], vec[i], col)
	}

	// Unknown columns fill with zero.
	extra := row.Vector([]string{"elo_diff", "nonexistent"})
	assert.Equal(t, []float64{60, 0}, extra)
}

func TestFairOdds(t *testing.T) {
	p := PredictionResult{HomeWin: 0.5, Draw: 0.25, HomeLoss: 0.25}
	home, draw, away := p.FairOdds()

	assert.Equal(t, "2.00", home.StringFixed(2))
	assert.Equal(t, "4.00", draw.StringFixed(2))
	assert.Equal(t, "4.00", away.StringFixed(2))

	zero := PredictionResult{HomeWin: 0, Draw: 1, HomeLoss: 0}
	h, d, a := zero.FairOdds()
	assert.True(t, h.IsZero())
	assert.Equal(t, "1.00", d.StringFixed(2))
	assert.True(t, a.IsZero())
}
