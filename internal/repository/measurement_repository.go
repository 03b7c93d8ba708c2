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

type MeasurementRepository struct {
	db *sqlx.DB
}

func NewMeasurementRepository(db *sqlx.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Create inserts a measurement.
func (r *MeasurementRepository) Create(ctx context.Context, measurement *models.Measurement) (*models.Measurement, error) {
	var created models.Measurement
	query := `
		INSERT INTO measurements (name, description, evidence_type)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, evidence_type, created_at
	`

	err := r.db.GetContext(ctx, &created, query,
		measurement.Name, measurement.Description, measurement.EvidenceType)
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement: %w", err)
	}
	return &created, nil
}

// GetByID retrieves a measurement by ID.
func (r *MeasurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Measurement, error) {
	var measurement models.Measurement
	query := `SELECT id, name, description, evidence_type, created_at FROM measurements WHERE id = $1`

	err := r.db.GetContext(ctx, &measurement, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return &measurement, nil
}

// List retrieves all measurements.
func (r *MeasurementRepository) List(ctx context.Context) ([]models.Measurement, error) {
	var measurements []models.Measurement
	query := `SELECT id, name, description, evidence_type, created_at FROM measurements ORDER BY name`

	if err := r.db.SelectContext(ctx, &measurements, query); err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return measurements, nil
}
