package repository

import (
	"context"
	"fmt"

	"maturity-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EvaluationHistoryRepository appends and reads audit entries. The table is
// append-only: this repository deliberately has no update or delete methods.
type EvaluationHistoryRepository struct {
	db *sqlx.DB
}

func NewEvaluationHistoryRepository(db *sqlx.DB) *EvaluationHistoryRepository {
	return &EvaluationHistoryRepository{db: db}
}

// Append inserts one immutable history entry.
func (r *EvaluationHistoryRepository) Append(ctx context.Context, entry *models.EvaluationHistory) (*models.EvaluationHistory, error) {
	var inserted models.EvaluationHistory
	query := `
		INSERT INTO evaluation_history (evaluation_id, change_type, previous_status, new_status,
		                                previous_value, new_value, change_reason, validation_results, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, evaluation_id, change_type, previous_status, new_status,
		          previous_value, new_value, change_reason, validation_results, changed_by, created_at
	`

	err := r.db.GetContext(ctx, &inserted, query,
		entry.EvaluationID, entry.ChangeType, entry.PreviousStatus, entry.NewStatus,
		entry.PreviousValue, entry.NewValue, entry.ChangeReason, entry.ValidationResults, entry.ChangedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to append history entry: %w", err)
	}

	return &inserted, nil
}

// ListByEvaluation retrieves the audit trail for one evaluation, newest first.
func (r *EvaluationHistoryRepository) ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]models.EvaluationHistory, error) {
	var entries []models.EvaluationHistory
	query := `
		SELECT id, evaluation_id, change_type, previous_status, new_status,
		       previous_value, new_value, change_reason, validation_results, changed_by, created_at
		FROM evaluation_history
		WHERE evaluation_id = $1
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &entries, query, evaluationID); err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}

	return entries, nil
}
