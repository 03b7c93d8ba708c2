package services

import (
	"context"

	"maturity-service/internal/models"
	"maturity-service/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages the containment hierarchy and the measurement set.
type CatalogService struct {
	catalogRepo     *repository.CatalogRepository
	measurementRepo *repository.MeasurementRepository
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, measurementRepo *repository.MeasurementRepository) *CatalogService {
	return &CatalogService{
		catalogRepo:     catalogRepo,
		measurementRepo: measurementRepo,
	}
}

func (s *CatalogService) CreateJourney(ctx context.Context, request *models.CreateJourneyRequest) (*models.Journey, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	journey := &models.Journey{
		Name:        request.Name,
		Description: optionalString(request.Description),
	}
	return s.catalogRepo.CreateJourney(ctx, journey)
}

func (s *CatalogService) ListJourneys(ctx context.Context) ([]models.Journey, error) {
	return s.catalogRepo.ListJourneys(ctx)
}

func (s *CatalogService) CreateActivity(ctx context.Context, request *models.CreateActivityRequest) (*models.Activity, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	// The parent journey must exist.
	if _, err := s.catalogRepo.GetJourney(ctx, request.JourneyID); err != nil {
		return nil, err
	}
	activity := &models.Activity{
		JourneyID:   request.JourneyID,
		Name:        request.Name,
		Description: optionalString(request.Description),
	}
	return s.catalogRepo.CreateActivity(ctx, activity)
}

func (s *CatalogService) ActivitiesOf(ctx context.Context, journeyID uuid.UUID) ([]models.Activity, error) {
	if _, err := s.catalogRepo.GetJourney(ctx, journeyID); err != nil {
		return nil, err
	}
	return s.catalogRepo.ActivitiesOf(ctx, journeyID)
}

func (s *CatalogService) CreateService(ctx context.Context, request *models.CreateServiceRequest) (*models.Service, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetActivity(ctx, request.ActivityID); err != nil {
		return nil, err
	}
	service := &models.Service{
		ActivityID:  request.ActivityID,
		Name:        request.Name,
		OwnerTeam:   optionalString(request.OwnerTeam),
		Description: optionalString(request.Description),
	}
	return s.catalogRepo.CreateService(ctx, service)
}

func (s *CatalogService) ServicesOf(ctx context.Context, activityID uuid.UUID) ([]models.Service, error) {
	if _, err := s.catalogRepo.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}
	return s.catalogRepo.ServicesOf(ctx, activityID)
}

func (s *CatalogService) CreateMeasurement(ctx context.Context, request *models.CreateMeasurementRequest) (*models.Measurement, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	measurement := &models.Measurement{
		Name:         request.Name,
		Description:  optionalString(request.Description),
		EvidenceType: request.EvidenceType,
	}
	return s.measurementRepo.Create(ctx, measurement)
}

func (s *CatalogService) ListMeasurements(ctx context.Context) ([]models.Measurement, error) {
	return s.measurementRepo.List(ctx)
}
