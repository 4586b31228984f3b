package store

import (
	"context"
	"fmt"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// MatchRepository persists the canonical match history.
type MatchRepository interface {
	Upsert(ctx context.Context, matches []models.Match) error
	GetAll(ctx context.Context) ([]models.Match, error)
	Count(ctx context.Context) (int, error)
}

// PostgresMatchRepository implements MatchRepository for PostgreSQL.
type PostgresMatchRepository struct {
	db *DB
}

// NewPostgresMatchRepository creates a new match repository.
func NewPostgresMatchRepository(db *DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert inserts or refreshes matches keyed by feed id, inside one
// transaction so a partial sync never leaves a half-written history.
func (r *PostgresMatchRepository) Upsert(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO matches (id, match_date, matchday, home_team, away_team, home_score, away_score, winner, finished)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			match_date = EXCLUDED.match_date,
			matchday = EXCLUDED.matchday,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			winner = EXCLUDED.winner,
			finished = EXCLUDED.finished,
			updated_at = NOW()
	`

	for _, m := range matches {
		_, err := tx.Exec(ctx, query,
			m.ID, m.Date, m.Matchday, m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore, string(m.Winner), m.Finished,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert match %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAll retrieves the full history in chronological order.
func (r *PostgresMatchRepository) GetAll(ctx context.Context) ([]models.Match, error) {
	query := `
		SELECT id, match_date, matchday, home_team, away_team, home_score, away_score, winner, finished
		FROM matches
		ORDER BY match_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		var winner string
		err := rows.Scan(
			&m.ID, &m.Date, &m.Matchday, &m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore, &winner, &m.Finished,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Winner = models.Outcome(winner)
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Count returns the number of stored matches.
func (r *PostgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
