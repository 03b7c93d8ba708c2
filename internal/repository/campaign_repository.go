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

type CampaignRepository struct {
	db *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a new campaign in draft status.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	var created models.Campaign
	query := `
		INSERT INTO campaigns (name, maturity_model, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, maturity_model, status, starts_at, ends_at, created_at, updated_at
	`

	err := r.db.GetContext(ctx, &created, query,
		campaign.Name, campaign.MaturityModel, campaign.Status, campaign.StartsAt, campaign.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	query := `
		SELECT id, name, maturity_model, status, starts_at, ends_at, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &campaign, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign by id: %w", err)
	}

	return &campaign, nil
}

// List retrieves all campaigns, newest first.
func (r *CampaignRepository) List(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	query := `
		SELECT id, name, maturity_model, status, starts_at, ends_at, created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &campaigns, query); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return campaigns, nil
}

// UpdateStatus moves a campaign between draft, active and closed.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CampaignStatus) (*models.Campaign, error) {
	var updated models.Campaign
	query := `
		UPDATE campaigns
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, maturity_model, status, starts_at, ends_at, created_at, updated_at
	`

	err := r.db.GetContext(ctx, &updated, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}

	return &updated, nil
}
