package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JustinSu11/clutch-call-sub000/internal/classifier"
	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

// ModelRepository persists trained classifier artifacts.
type ModelRepository interface {
	Create(ctx context.Context, artifact *classifier.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*classifier.Artifact, error)
	GetActive(ctx context.Context) (*classifier.Artifact, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// PostgresModelRepository implements ModelRepository for PostgreSQL. The
// artifact body is stored as a JSONB document keyed by the artifact id.
type PostgresModelRepository struct {
	db *DB
}

// NewPostgresModelRepository creates a new model repository.
func NewPostgresModelRepository(db *DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new trained artifact.
func (r *PostgresModelRepository) Create(ctx context.Context, artifact *classifier.Artifact) error {
	body, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	query := `
		INSERT INTO model_artifacts (id, body, n_rows, trained_at, active)
		VALUES ($1, $2, $3, $4, false)
	`

	_, err = r.db.GetPool().Exec(ctx, query, artifact.ID, body, artifact.NRows, artifact.TrainedAt)
	if err != nil {
		return fmt.Errorf("failed to create model artifact: %w", err)
	}

	return nil
}

// GetByID retrieves an artifact by id.
func (r *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*classifier.Artifact, error) {
	query := `SELECT body FROM model_artifacts WHERE id = $1`
	return r.scanArtifact(r.db.GetPool().QueryRow(ctx, query, id))
}

// GetActive retrieves the currently active artifact.
func (r *PostgresModelRepository) GetActive(ctx context.Context) (*classifier.Artifact, error) {
	query := `
		SELECT body FROM model_artifacts
		WHERE active = true
		ORDER BY trained_at DESC
		LIMIT 1
	`
	return r.scanArtifact(r.db.GetPool().QueryRow(ctx, query))
}

func (r *PostgresModelRepository) scanArtifact(row pgx.Row) (*classifier.Artifact, error) {
	var body []byte
	err := row.Scan(&body)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model artifact: %w", err)
	}

	var artifact classifier.Artifact
	if err := json.Unmarshal(body, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	return &artifact, nil
}

// SetActive marks an artifact as active and deactivates every other one.
func (r *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "UPDATE model_artifacts SET active = false WHERE id != $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate other artifacts: %w", err)
	}

	tag, err := tx.Exec(ctx, "UPDATE model_artifacts SET active = true WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to activate artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
