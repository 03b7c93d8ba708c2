package services

import (
	"context"
	"math"

	"maturity-service/internal/models"

	"github.com/google/uuid"
)

// RollupService computes maturity scores for a campaign. It only reads, and
// it re-queries evaluations and catalog edges on every request: results are
// never cached, so staleness is bounded by the input query alone.
type RollupService struct {
	evalRepo     EvaluationStore
	campaignRepo CampaignStore
	catalogRepo  CatalogStore
}

func NewRollupService(evalRepo EvaluationStore, campaignRepo CampaignStore, catalogRepo CatalogStore) *RollupService {
	return &RollupService{
		evalRepo:     evalRepo,
		campaignRepo: campaignRepo,
		catalogRepo:  catalogRepo,
	}
}

// serviceTally accumulates per-service evaluation counts.
type serviceTally struct {
	total       int
	implemented int
}

// Rollup computes the full campaign rollup: per-service percentages, min
// aggregated activity and journey levels, and the flat campaign overall.
func (s *RollupService) Rollup(ctx context.Context, campaignID uuid.UUID) (*models.RollupResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	evaluations, err := s.evalRepo.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	tallies := tallyByService(evaluations)

	journeys, err := s.catalogRepo.ListJourneys(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.RollupResult{CampaignID: campaign.ID}

	for _, journey := range journeys {
		journeyResult, err := s.rollupJourney(ctx, journey, tallies)
		if err != nil {
			return nil, err
		}
		// Journeys without any scored activity are omitted, not zeroed.
		if journeyResult == nil {
			continue
		}
		result.JourneyResults = append(result.JourneyResults, *journeyResult)
	}

	// The overall score is deliberately not a hierarchical minimum: it is the
	// flat implemented share across every evaluation in the campaign.
	totalEvaluations := len(evaluations)
	implementedTotal := 0
	for _, evaluation := range evaluations {
		if evaluation.Status == models.EvaluationImplemented {
			implementedTotal++
		}
	}
	result.OverallPercentage = percentageOf(implementedTotal, totalEvaluations)
	result.OverallLevel = models.MaturityLevelFor(result.OverallPercentage)

	return result, nil
}

func (s *RollupService) rollupJourney(ctx context.Context, journey models.Journey, tallies map[uuid.UUID]serviceTally) (*models.JourneyResult, error) {
	activities, err := s.catalogRepo.ActivitiesOf(ctx, journey.ID)
	if err != nil {
		return nil, err
	}

	journeyResult := &models.JourneyResult{
		JourneyID:   journey.ID,
		JourneyName: journey.Name,
	}

	journeyLevel := math.MaxInt
	for _, activity := range activities {
		activityResult, err := s.rollupActivity(ctx, activity, tallies)
		if err != nil {
			return nil, err
		}
		if activityResult == nil {
			continue
		}
		journeyResult.ActivityResults = append(journeyResult.ActivityResults, *activityResult)
		if activityResult.MaturityLevel < journeyLevel {
			journeyLevel = activityResult.MaturityLevel
		}
	}

	if len(journeyResult.ActivityResults) == 0 {
		return nil, nil
	}

	journeyResult.MaturityLevel = journeyLevel
	return journeyResult, nil
}

func (s *RollupService) rollupActivity(ctx context.Context, activity models.Activity, tallies map[uuid.UUID]serviceTally) (*models.ActivityResult, error) {
	services, err := s.catalogRepo.ServicesOf(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	activityResult := &models.ActivityResult{
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
	}

	activityLevel := math.MaxInt
	for _, service := range services {
		tally, ok := tallies[service.ID]
		if !ok {
			// A service with zero evaluations never appears in the rollup.
			continue
		}

		percentage := percentageOf(tally.implemented, tally.total)
		serviceResult := models.ServiceResult{
			ServiceID:     service.ID,
			ServiceName:   service.Name,
			Percentage:    percentage,
			MaturityLevel: models.MaturityLevelFor(percentage),
		}
		activityResult.ServiceResults = append(activityResult.ServiceResults, serviceResult)
		if serviceResult.MaturityLevel < activityLevel {
			activityLevel = serviceResult.MaturityLevel
		}
	}

	if len(activityResult.ServiceResults) == 0 {
		return nil, nil
	}

	activityResult.MaturityLevel = activityLevel
	return activityResult, nil
}

// Distribution computes the per-campaign histogram of services by maturity
// level. Unlike the rollup, a catalog service with zero evaluations counts
// here at level 0.
func (s *RollupService) Distribution(ctx context.Context, campaignID uuid.UUID) (*models.LevelDistribution, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	evaluations, err := s.evalRepo.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	tallies := tallyByService(evaluations)

	services, err := s.catalogRepo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	distribution := &models.LevelDistribution{
		CampaignID: campaign.ID,
		Levels:     map[int]int{0: 0, 1: 0, 2: 0, 3: 0, 4: 0},
	}

	for _, service := range services {
		tally := tallies[service.ID]
		level := models.MaturityLevelFor(percentageOf(tally.implemented, tally.total))
		distribution.Levels[level]++
		distribution.Total++
	}

	return distribution, nil
}

func tallyByService(evaluations []models.Evaluation) map[uuid.UUID]serviceTally {
	tallies := make(map[uuid.UUID]serviceTally)
	for _, evaluation := range evaluations {
		tally := tallies[evaluation.ServiceID]
		tally.total++
		if evaluation.Status == models.EvaluationImplemented {
			tally.implemented++
		}
		tallies[evaluation.ServiceID] = tally
	}
	return tallies
}

// percentageOf returns implemented/total*100, and 0 for an empty set so the
// result is never NaN.
func percentageOf(implemented, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(implemented) / float64(total) * 100
}
