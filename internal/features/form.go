// Package features computes rolling team-form and head-to-head statistics and
// orchestrates the walk-forward pass that turns match history into a causally
// safe training table.
package features

import (
	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

const (
	// defaultRestDays is used when a team's slice is too short to measure
	// the interval between matches.
	defaultRestDays = 7.0

	// neutralH2HGoals is the prior for average combined goals when two
	// teams have never met.
	neutralH2HGoals = 2.5
)

// TeamFormFeatures computes rolling-window form for one team from a slice of
// that team's matches, ordered oldest first. An empty slice yields the zero
// form with the default rest interval.
func TeamFormFeatures(history []models.Match, team string) models.TeamForm {
	form := models.TeamForm{RestDays: defaultRestDays}
	if len(history) == 0 {
		return form
	}

	n := float64(len(history))
	var scored, conceded, points, wins, cleanSheets, failedToScore float64
	for _, m := range history {
		gf := float64(m.GoalsFor(team))
		ga := float64(m.GoalsAgainst(team))
		scored += gf
		conceded += ga
		points += m.PointsFor(team)
		if m.PointsFor(team) == 3 {
			wins++
		}
		if ga == 0 {
			cleanSheets++
		}
		if gf == 0 {
			failedToScore++
		}
	}

	form.AvgScored = scored / n
	form.AvgConceded = conceded / n
	form.GoalDiff = form.AvgScored - form.AvgConceded
	form.AvgPoints = points / n
	form.WinRate = wins / n
	form.CleanSheetRate = cleanSheets / n
	form.FailedToScoreRate = failedToScore / n

	last3 := history
	if len(last3) > 3 {
		last3 = last3[len(last3)-3:]
	}
	for _, m := range last3 {
		form.FormLast3 += m.PointsFor(team)
	}

	if len(history) >= 2 {
		var gapDays float64
		for i := 1; i < len(history); i++ {
			gapDays += history[i].Date.Sub(history[i-1].Date).Hours() / 24.0
		}
		form.RestDays = gapDays / float64(len(history)-1)
	}

	return form
}

// HeadToHeadFeatures summarizes prior meetings between the upcoming fixture's
// home and away teams, regardless of which side hosted each meeting. No prior
// meetings yields the neutral prior {0, 0, 0, 2.5}.
func HeadToHeadFeatures(meetings []models.Match, home, away string) models.HeadToHead {
	if len(meetings) == 0 {
		return models.HeadToHead{AvgGoals: neutralH2HGoals}
	}

	n := float64(len(meetings))
	var homeWins, awayWins, draws, goals float64
	for _, m := range meetings {
		goals += float64(m.HomeScore + m.AwayScore)
		switch m.Result() {
		case models.OutcomeDraw:
			draws++
		case models.OutcomeHome:
			if m.HomeTeam == home {
				homeWins++
			} else {
				awayWins++
			}
		case models.OutcomeAway:
			if m.AwayTeam == home {
				homeWins++
			} else {
				awayWins++
			}
		}
	}

	return models.HeadToHead{
		HomeWinRate: homeWins / n,
		AwayWinRate: awayWins / n,
		DrawRate:    draws / n,
		AvgGoals:    goals / n,
	}
}

// TeamTail returns the last n matches involving the team, oldest first.
func TeamTail(history []models.Match, team string, n int) []models.Match {
	var tail []models.Match
	for _, m := range history {
		if m.Involves(team) {
			tail = append(tail, m)
		}
	}
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	return tail
}

// MeetingsTail returns the last n meetings between the two teams, oldest
// first.
func MeetingsTail(history []models.Match, a, b string, n int) []models.Match {
	var meetings []models.Match
	for _, m := range history {
		if m.Involves(a) && m.Involves(b) {
			meetings = append(meetings, m)
		}
	}
	if len(meetings) > n {
		meetings = meetings[len(meetings)-n:]
	}
	return meetings
}
