package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maturity-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EvaluationRepository struct {
	db *sqlx.DB
}

func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

const evaluationColumns = `id, service_id, measurement_id, campaign_id, status,
	       evidence_location, notes, validation_report, created_at, updated_at`

// GetByID retrieves an evaluation by its synthetic id.
func (r *EvaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE id = $1`, evaluationColumns)

	err := r.db.GetContext(ctx, &evaluation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation by id: %w", err)
	}

	return &evaluation, nil
}

// GetByKey retrieves the evaluation for one (service, measurement, campaign) triple.
func (r *EvaluationRepository) GetByKey(ctx context.Context, key models.EvaluationKey) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	query := fmt.Sprintf(`SELECT %s FROM evaluations
		WHERE service_id = $1 AND measurement_id = $2 AND campaign_id = $3`, evaluationColumns)

	err := r.db.GetContext(ctx, &evaluation, query, key.ServiceID, key.MeasurementID, key.CampaignID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation by key: %w", err)
	}

	return &evaluation, nil
}

// GetOrCreate loads the evaluation for the triple, lazily creating a
// not_implemented record on first access. The unique constraint on the triple
// makes concurrent first touches converge on a single row.
func (r *EvaluationRepository) GetOrCreate(ctx context.Context, key models.EvaluationKey) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	query := fmt.Sprintf(`
		INSERT INTO evaluations (service_id, measurement_id, campaign_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (service_id, measurement_id, campaign_id) DO UPDATE SET updated_at = evaluations.updated_at
		RETURNING %s`, evaluationColumns)

	err := r.db.GetContext(ctx, &evaluation, query,
		key.ServiceID, key.MeasurementID, key.CampaignID, models.EvaluationNotImplemented)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create evaluation: %w", err)
	}

	return &evaluation, nil
}

// Update persists status, evidence, notes and validation report for one row.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) (*models.Evaluation, error) {
	var updated models.Evaluation
	query := fmt.Sprintf(`
		UPDATE evaluations
		SET status = $2, evidence_location = $3, notes = $4, validation_report = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, evaluationColumns)

	err := r.db.GetContext(ctx, &updated, query,
		evaluation.ID, evaluation.Status, evaluation.EvidenceLocation, evaluation.Notes, evaluation.ValidationReport)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update evaluation: %w", err)
	}

	return &updated, nil
}

// ListByCampaign retrieves every evaluation in a campaign.
func (r *EvaluationRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE campaign_id = $1 ORDER BY created_at`, evaluationColumns)

	if err := r.db.SelectContext(ctx, &evaluations, query, campaignID); err != nil {
		return nil, fmt.Errorf("failed to list evaluations for campaign: %w", err)
	}

	return evaluations, nil
}

// ListByService retrieves every evaluation of one service in a campaign.
func (r *EvaluationRepository) ListByService(ctx context.Context, campaignID, serviceID uuid.UUID) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	query := fmt.Sprintf(`SELECT %s FROM evaluations
		WHERE campaign_id = $1 AND service_id = $2 ORDER BY created_at`, evaluationColumns)

	if err := r.db.SelectContext(ctx, &evaluations, query, campaignID, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list evaluations for service: %w", err)
	}

	return evaluations, nil
}
