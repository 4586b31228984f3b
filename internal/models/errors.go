package models

import "errors"

var (
	// ErrFeedUnavailable indicates a season fetch failed; the whole training
	// run aborts rather than training on partial data.
	ErrFeedUnavailable = errors.New("match feed unavailable")

	// ErrNoTrainingData indicates no feature rows survived the walk-forward
	// pass (or no finished matches were collected at all).
	ErrNoTrainingData = errors.New("no training data")

	// ErrModelNotReady indicates a prediction was requested before any
	// successful training pass.
	ErrModelNotReady = errors.New("model not ready")

	// ErrSameTeamMatchup indicates home and away resolved to the same
	// canonical team.
	ErrSameTeamMatchup = errors.New("home and away resolve to the same team")

	// ErrNotFound indicates a record is absent from the store.
	ErrNotFound = errors.New("record not found")
)
