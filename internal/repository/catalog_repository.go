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

// CatalogRepository stores the containment hierarchy the rollup engine
// consumes: journeys contain activities, activities contain services.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateJourney inserts a journey.
func (r *CatalogRepository) CreateJourney(ctx context.Context, journey *models.Journey) (*models.Journey, error) {
	var created models.Journey
	query := `
		INSERT INTO journeys (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`

	if err := r.db.GetContext(ctx, &created, query, journey.Name, journey.Description); err != nil {
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}
	return &created, nil
}

// GetJourney retrieves a journey by ID.
func (r *CatalogRepository) GetJourney(ctx context.Context, id uuid.UUID) (*models.Journey, error) {
	var journey models.Journey
	query := `SELECT id, name, description, created_at FROM journeys WHERE id = $1`

	err := r.db.GetContext(ctx, &journey, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	return &journey, nil
}

// ListJourneys retrieves all journeys.
func (r *CatalogRepository) ListJourneys(ctx context.Context) ([]models.Journey, error) {
	var journeys []models.Journey
	query := `SELECT id, name, description, created_at FROM journeys ORDER BY name`

	if err := r.db.SelectContext(ctx, &journeys, query); err != nil {
		return nil, fmt.Errorf("failed to list journeys: %w", err)
	}
	return journeys, nil
}

// CreateActivity inserts an activity under a journey.
func (r *CatalogRepository) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	var created models.Activity
	query := `
		INSERT INTO activities (journey_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, journey_id, name, description, created_at
	`

	if err := r.db.GetContext(ctx, &created, query, activity.JourneyID, activity.Name, activity.Description); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return &created, nil
}

// GetActivity retrieves an activity by ID.
func (r *CatalogRepository) GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	query := `SELECT id, journey_id, name, description, created_at FROM activities WHERE id = $1`

	err := r.db.GetContext(ctx, &activity, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &activity, nil
}

// ActivitiesOf retrieves the activities contained in a journey.
func (r *CatalogRepository) ActivitiesOf(ctx context.Context, journeyID uuid.UUID) ([]models.Activity, error) {
	var activities []models.Activity
	query := `SELECT id, journey_id, name, description, created_at FROM activities WHERE journey_id = $1 ORDER BY name`

	if err := r.db.SelectContext(ctx, &activities, query, journeyID); err != nil {
		return nil, fmt.Errorf("failed to list activities of journey: %w", err)
	}
	return activities, nil
}

// CreateService inserts a service under an activity.
func (r *CatalogRepository) CreateService(ctx context.Context, service *models.Service) (*models.Service, error) {
	var created models.Service
	query := `
		INSERT INTO services (activity_id, name, owner_team, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, activity_id, name, owner_team, description, created_at
	`

	err := r.db.GetContext(ctx, &created, query,
		service.ActivityID, service.Name, service.OwnerTeam, service.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &created, nil
}

// GetService retrieves a service by ID.
func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	query := `SELECT id, activity_id, name, owner_team, description, created_at FROM services WHERE id = $1`

	err := r.db.GetContext(ctx, &service, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

// ServicesOf retrieves the services contained in an activity.
func (r *CatalogRepository) ServicesOf(ctx context.Context, activityID uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	query := `SELECT id, activity_id, name, owner_team, description, created_at FROM services WHERE activity_id = $1 ORDER BY name`

	if err := r.db.SelectContext(ctx, &services, query, activityID); err != nil {
		return nil, fmt.Errorf("failed to list services of activity: %w", err)
	}
	return services, nil
}

// ListServices retrieves all catalog services.
func (r *CatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	query := `SELECT id, activity_id, name, owner_team, description, created_at FROM services ORDER BY name`

	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
