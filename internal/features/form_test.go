package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

func matchOn(day int, home, away string, homeScore, awayScore int) models.Match {
	return models.Match{
		ID:        int64(day),
		Date:      time.Date(2024, 1, day, 15, 0, 0, 0, time.UTC),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Finished:  true,
	}
}

func TestTeamFormFeaturesEmptyHistory(t *testing.T) {
	form := TeamFormFeatures(nil, "Arsenal FC")

	assert.Zero(t, form.AvgScored)
	assert.Zero(t, form.AvgPoints)
	assert.Zero(t, form.WinRate)
	assert.Equal(t, 7.0, form.RestDays)
}

func TestTeamFormFeaturesAverages(t *testing.T) {
	history := []models.Match{
		matchOn(1, "Arsenal FC", "Chelsea FC", 2, 0), // win, clean sheet
		matchOn(8, "Everton FC", "Arsenal FC", 1, 1), // draw
		matchOn(15, "Arsenal FC", "Fulham FC", 0, 3), // loss, failed to score
	}

	form := TeamFormFeatures(history, "Arsenal FC")

	assert.InDelta(t, 1.0, form.AvgScored, 1e-9)
	assert.InDelta(t, 4.0/3.0, form.AvgConceded, 1e-9)
	assert.InDelta(t, form.AvgScored-form.AvgConceded, form.GoalDiff, 1e-9)
	assert.InDelta(t, 4.0/3.0, form.AvgPoints, 1e-9)
	assert.InDelta(t, 4.0, form.FormLast3, 1e-9)
	assert.InDelta(t, 1.0/3.0, form.WinRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, form.CleanSheetRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, form.FailedToScoreRate, 1e-9)
	assert.InDelta(t, 7.0, form.RestDays, 1e-9)
}

func TestTeamFormLast3UsesTail(t *testing.T) {
	history := []models.Match{
		matchOn(1, "Arsenal FC", "Chelsea FC", 3, 0), // win, outside last 3
		matchOn(2, "Arsenal FC", "Everton FC", 0, 1), // loss
		matchOn(3, "Arsenal FC", "Fulham FC", 0, 1),  // loss
		matchOn(4, "Arsenal FC", "Burnley FC", 1, 1), // draw
	}

	form := TeamFormFeatures(history, "Arsenal FC")
	assert.InDelta(t, 1.0, form.FormLast3, 1e-9)
}

func TestHeadToHeadFeaturesNeutralPrior(t *testing.T) {
	h2h := HeadToHeadFeatures(nil, "Arsenal FC", "Chelsea FC")

	assert.Zero(t, h2h.HomeWinRate)
	assert.Zero(t, h2h.AwayWinRate)
	assert.Zero(t, h2h.DrawRate)
	assert.Equal(t, 2.5, h2h.AvgGoals)
}

func TestHeadToHeadFeaturesVenueIndependentAttribution(t *testing.T) {
	meetings := []models.Match{
		matchOn(1, "Arsenal FC", "Chelsea FC", 2, 0),  // Arsenal win at home
		matchOn(8, "Chelsea FC", "Arsenal FC", 0, 1),  // Arsenal win away
		matchOn(15, "Chelsea FC", "Arsenal FC", 3, 0), // Chelsea win
		matchOn(22, "Arsenal FC", "Chelsea FC", 1, 1), // draw
	}

	// Upcoming fixture: Arsenal at home.
	h2h := HeadToHeadFeatures(meetings, "Arsenal FC", "Chelsea FC")
	assert.InDelta(t, 0.5, h2h.HomeWinRate, 1e-9)
	assert.InDelta(t, 0.25, h2h.AwayWinRate, 1e-9)
	assert.InDelta(t, 0.25, h2h.DrawRate, 1e-9)
	assert.InDelta(t, 2.0, h2h.AvgGoals, 1e-9)

	// Same meetings, Chelsea at home: rates swap sides.
	flipped := HeadToHeadFeatures(meetings, "Chelsea FC", "Arsenal FC")
	assert.InDelta(t, 0.25, flipped.HomeWinRate, 1e-9)
	assert.InDelta(t, 0.5, flipped.AwayWinRate, 1e-9)
}

func TestTeamTail(t *testing.T) {
	history := []models.Match{
		matchOn(1, "Arsenal FC", "Chelsea FC", 1, 0),
		matchOn(2, "Everton FC", "Fulham FC", 1, 0),
		matchOn(3, "Chelsea FC", "Arsenal FC", 1, 0),
		matchOn(4, "Arsenal FC", "Everton FC", 1, 0),
	}

	tail := TeamTail(history, "Arsenal FC", 2)
	assert.Len(t, tail, 2)
	assert.Equal(t, int64(3), tail[0].ID)
	assert.Equal(t, int64(4), tail[1].ID)
}

func TestMeetingsTail(t *testing.T) {
	history := []models.Match{
		matchOn(1, "Arsenal FC", "Chelsea FC", 1, 0),
		matchOn(2, "Arsenal FC", "Everton FC", 1, 0),
		matchOn(3, "Chelsea FC", "Arsenal FC", 2, 2),
	}

	meetings := MeetingsTail(history, "Arsenal FC", "Chelsea FC", 5)
	assert.Len(t, meetings, 2)
	assert.Equal(t, int64(1), meetings[0].ID)
	assert.Equal(t, int64(3), meetings[1].ID)
}
