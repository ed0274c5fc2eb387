package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ml-pipeline/core/models"

	"github.com/google/uuid"
)

// ErrDispatchNotFound is returned when no ledger row matches
var ErrDispatchNotFound = errors.New("dispatch not found")

// DispatchRepository handles database operations for the dispatch ledger
type DispatchRepository struct {
	db  *DB
	now func() time.Time
}

// NewDispatchRepository creates a new dispatch repository
func NewDispatchRepository(db *DB) *DispatchRepository {
	return &DispatchRepository{db: db, now: time.Now}
}

// RecordDispatch inserts one ledger row. ID and CreatedAt are filled in when empty.
func (r *DispatchRepository) RecordDispatch(ctx context.Context, rec *models.DispatchRecord) error {
	query := `
		INSERT INTO dispatches (
			id, pipeline_job_id, training_job_name, training_job_arn,
			outcome, error_kind, error_detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.PipelineJobID,
		rec.TrainingJobName,
		rec.TrainingJobARN,
		rec.Outcome,
		rec.ErrorKind,
		rec.ErrorDetail,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch for %s: %w", rec.PipelineJobID, err)
	}
	return nil
}

// GetDispatch returns the latest ledger row for a pipeline job
func (r *DispatchRepository) GetDispatch(ctx context.Context, pipelineJobID string) (*models.DispatchRecord, error) {
	query := `
		SELECT id, pipeline_job_id, training_job_name, training_job_arn,
		       outcome, error_kind, error_detail, created_at
		FROM dispatches
		WHERE pipeline_job_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec models.DispatchRecord
	err := r.db.QueryRowContext(ctx, query, pipelineJobID).Scan(
		&rec.ID,
		&rec.PipelineJobID,
		&rec.TrainingJobName,
		&rec.TrainingJobARN,
		&rec.Outcome,
		&rec.ErrorKind,
		&rec.ErrorDetail,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDispatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListDispatches returns the most recent ledger rows, newest first
func (r *DispatchRepository) ListDispatches(ctx context.Context, limit int) ([]models.DispatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, pipeline_job_id, training_job_name, training_job_arn,
		       outcome, error_kind, error_detail, created_at
		FROM dispatches
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.DispatchRecord{}
	for rows.Next() {
		var rec models.DispatchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PipelineJobID,
			&rec.TrainingJobName,
			&rec.TrainingJobARN,
			&rec.Outcome,
			&rec.ErrorKind,
			&rec.ErrorDetail,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
