package models

import "time"

// TeamForm holds rolling-window form statistics for one team, computed from a
// slice of that team's most recent matches.
type TeamForm struct {
	AvgScored         float64 `json:"avg_scored"`
	AvgConceded       float64 `json:"avg_conceded"`
	GoalDiff          float64 `json:"goal_diff"`
	AvgPoints         float64 `json:"avg_points"`
	FormLast3         float64 `json:"form_last3"`
	WinRate           float64 `json:"win_rate"`
	CleanSheetRate    float64 `json:"clean_sheet_rate"`
	FailedToScoreRate float64 `json:"failed_to_score_rate"`
	RestDays          float64 `json:"rest_days"`
}

// HeadToHead summarizes the most recent meetings between two specific teams.
// Rates are expressed from the perspective of the upcoming fixture's home and
// away sides, regardless of venue in the historical meetings.
type HeadToHead struct {
	HomeWinRate float64 `json:"home_win_rate"`
	AwayWinRate float64 `json:"away_win_rate"`
	DrawRate    float64 `json:"draw_rate"`
	AvgGoals    float64 `json:"avg_goals"`
}

// RatingSnapshot is a point-in-time copy of a team's strength and form state.
// Elo is the raw rating without any home-field adjustment.
type RatingSnapshot struct {
	Elo             float64 `json:"elo"`
	EWMGoalsFor     float64 `json:"ewm_goals_for"`
	EWMGoalsAgainst float64 `json:"ewm_goals_against"`
	EWMPoints       float64 `json:"ewm_points"`
}

// FeatureRow is one training example emitted by the walk-forward builder.
// Every value is derived solely from matches strictly earlier than Date.
type FeatureRow struct {
	MatchID  int64     `json:"match_id"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`

	HomeForm TeamForm `json:"home_form"`
	AwayForm TeamForm `json:"away_form"`

	// EloHome includes the home-field advantage bonus; the raw pre-match
	// ratings are kept in the snapshots below.
	EloHome      float64 `json:"elo_home"`
	EloAway      float64 `json:"elo_away"`
	EloDiff      float64 `json:"elo_diff"`
	EloCloseBand float64 `json:"elo_close_band"`

	HomeSnapshot RatingSnapshot `json:"home_snapshot"`
	AwaySnapshot RatingSnapshot `json:"away_snapshot"`

	H2H HeadToHead `json:"h2h"`

	Label Outcome `json:"label"`
}

// FeatureColumns is the canonical training schema: the ordered list of
// feature names the classifier is fit on. Identity columns and the label are
// deliberately absent.
func FeatureColumns() []string {
	return []string{
		"home_avg_scored", "home_avg_conceded", "home_goal_diff", "home_avg_points",
		"home_form_last3", "home_win_rate", "home_clean_sheet_rate", "home_failed_to_score_rate",
		"home_rest_days",
		"away_avg_scored", "away_avg_conceded", "away_goal_diff", "away_avg_points",
		"away_form_last3", "away_win_rate", "away_clean_sheet_rate", "away_failed_to_score_rate",
		"away_rest_days",
		"elo_home", "elo_away", "elo_diff", "elo_close_band",
		"home_ewm_goals_for", "home_ewm_goals_against", "home_ewm_points",
		"away_ewm_goals_for", "away_ewm_goals_against", "away_ewm_points",
		"h2h_home_win_rate", "h2h_away_win_rate", "h2h_draw_rate", "h2h_avg_goals",
	}
}

// Values returns the row's feature values keyed by column name.
func (r FeatureRow) Values() map[string]float64 {
	return map[string]float64{
		"home_avg_scored":           r.HomeForm.AvgScored,
		"home_avg_conceded":         r.HomeForm.AvgConceded,
		"home_goal_diff":            r.HomeForm.GoalDiff,
		"home_avg_points":           r.HomeForm.AvgPoints,
		"home_form_last3":           r.HomeForm.FormLast3,
		"home_win_rate":             r.HomeForm.WinRate,
		"home_clean_sheet_rate":     r.HomeForm.CleanSheetRate,
		"home_failed_to_score_rate": r.HomeForm.FailedToScoreRate,
		"home_rest_days":            r.HomeForm.RestDays,
		"away_avg_scored":           r.AwayForm.AvgScored,
		"away_avg_conceded":         r.AwayForm.AvgConceded,
		"away_goal_diff":            r.AwayForm.GoalDiff,
		"away_avg_points":           r.AwayForm.AvgPoints,
		"away_form_last3":           r.AwayForm.FormLast3,
		"away_win_rate":             r.AwayForm.WinRate,
		"away_clean_sheet_rate":     r.AwayForm.CleanSheetRate,
		"away_failed_to_score_rate": r.AwayForm.FailedToScoreRate,
		"away_rest_days":            r.AwayForm.RestDays,
		"elo_home":                  r.EloHome,
		"elo_away":                  r.EloAway,
		"elo_diff":                  r.EloDiff,
		"elo_close_band":            r.EloCloseBand,
		"home_ewm_goals_for":        r.HomeSnapshot.EWMGoalsFor,
		"home_ewm_goals_against":    r.HomeSnapshot.EWMGoalsAgainst,
		"home_ewm_points":           r.HomeSnapshot.EWMPoints,
		"away_ewm_goals_for":        r.AwaySnapshot.EWMGoalsFor,
		"away_ewm_goals_against":    r.AwaySnapshot.EWMGoalsAgainst,
		"away_ewm_points":           r.AwaySnapshot.EWMPoints,
		"h2h_home_win_rate":         r.H2H.HomeWinRate,
		"h2h_away_win_rate":         r.H2H.AwayWinRate,
		"h2h_draw_rate":             r.H2H.DrawRate,
		"h2h_avg_goals":             r.H2H.AvgGoals,
	}
}

// Vector flattens the row into the given column order. Columns the row does
// not populate are filled with 0.0.
func (r FeatureRow) Vector(columns []string) []float64 {
	values := r.Values()
	vec := make([]float64, len(columns))
	for i, col := range columns {
		vec[i] = values[col]
	}
	return vec
}
