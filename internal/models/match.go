// Package models defines the core domain types shared across the prediction engine.
package models

import (
	"sort"
	"time"
)

// Outcome is the full-time result of a match from the home team's perspective.
type Outcome string

const (
	OutcomeHome    Outcome = "HOME"
	OutcomeAway    Outcome = "AWAY"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeUnknown Outcome = ""
)

// Match is an immutable record of a single fixture. Score fields are only
// meaningful when Finished is true.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	Date      time.Time `json:"date" db:"match_date"`
	Matchday  int       `json:"matchday,omitempty" db:"matchday"`
	HomeTeam  string    `json:"home_team" db:"home_team"`
	AwayTeam  string    `json:"away_team" db:"away_team"`
	HomeScore int       `json:"home_score" db:"home_score"`
	AwayScore int       `json:"away_score" db:"away_score"`
	Winner    Outcome   `json:"winner" db:"winner"`
	Finished  bool      `json:"finished" db:"finished"`
}

// Result returns the match outcome, deriving it from the score when the feed
// did not supply a winner indicator.
func (m Match) Result() Outcome {
	if m.Winner != OutcomeUnknown {
		return m.Winner
	}
	if !m.Finished {
		return OutcomeUnknown
	}
	switch {
	case m.HomeScore > m.AwayScore:
		return OutcomeHome
	case m.HomeScore < m.AwayScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Involves reports whether the given canonical team played in this match.
func (m Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// GoalsFor returns the goals scored by the given team in this match.
func (m Match) GoalsFor(team string) int {
	if m.HomeTeam == team {
		return m.HomeScore
	}
	return m.AwayScore
}

// GoalsAgainst returns the goals conceded by the given team in this match.
func (m Match) GoalsAgainst(team string) int {
	if m.HomeTeam == team {
		return m.AwayScore
	}
	return m.HomeScore
}

// PointsFor returns the league points the given team earned from this match.
func (m Match) PointsFor(team string) float64 {
	switch m.Result() {
	case OutcomeDraw:
		return 1
	case OutcomeHome:
		if m.HomeTeam == team {
			return 3
		}
	case OutcomeAway:
		if m.AwayTeam == team {
			return 3
		}
	}
	return 0
}

// SortMatches orders matches ascending by date, ties broken by ID so the
// chronological order is a total order regardless of ingestion order.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Date.Equal(matches[j].Date) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Date.Before(matches[j].Date)
	})
}

// Teams returns the sorted set of distinct team names appearing in matches.
func Teams(matches []Match) []string {
	seen := make(map[string]struct{}, 64)
	for _, m := range matches {
		seen[m.HomeTeam] = struct{}{}
		seen[m.AwayTeam] = struct{}{}
	}
	teams := make([]string, 0, len(seen))
	for t := range seen {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}
