package services

import (
	"context"

	"maturity-service/internal/models"
	"maturity-service/internal/repository"

	"github.com/google/uuid"
)

// CampaignService owns campaign lifecycle: create, list, activate, close.
type CampaignService struct {
	campaignRepo *repository.CampaignRepository
}

func NewCampaignService(campaignRepo *repository.CampaignRepository) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, request *models.CreateCampaignRequest) (*models.Campaign, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Name:          request.Name,
		MaturityModel: request.MaturityModel,
		Status:        models.CampaignDraft,
		StartsAt:      request.StartsAt,
		EndsAt:        request.EndsAt,
	}
	return s.campaignRepo.Create(ctx, campaign)
}

func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx)
}

// SetCampaignStatus moves a campaign between draft, active and closed.
// Closing is final: a closed campaign never reopens.
func (s *CampaignService) SetCampaignStatus(ctx context.Context, id uuid.UUID, status models.CampaignStatus) (*models.Campaign, error) {
	if !models.IsValidCampaignStatus(status) {
		return nil, models.NewValidationError("INVALID_CAMPAIGN_STATUS", "status must be one of draft, active, closed")
	}

	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == models.CampaignClosed {
		return nil, models.NewValidationError("CAMPAIGN_CLOSED", "a closed campaign cannot change status")
	}

	return s.campaignRepo.UpdateStatus(ctx, id, status)
}
