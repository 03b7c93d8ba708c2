package services

import (
	"context"
	"testing"

	"maturity-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rollupFixture struct {
	service  *RollupService
	evals    *fakeEvaluationStore
	catalog  *fakeCatalogStore
	campaign *models.Campaign
}

func newRollupFixture(t *testing.T) *rollupFixture {
	t.Helper()

	campaign := &models.Campaign{
		ID:            uuid.New(),
		Name:          "2026 H2 Platform Maturity",
		MaturityModel: "platform-v1",
		Status:        models.CampaignActive,
	}
	evals := newFakeEvaluationStore()
	catalog := &fakeCatalogStore{
		activities: make(map[uuid.UUID][]models.Activity),
		services:   make(map[uuid.UUID][]models.Service),
	}

	return &rollupFixture{
		service:  NewRollupService(evals, newFakeCampaignStore(campaign), catalog),
		evals:    evals,
		catalog:  catalog,
		campaign: campaign,
	}
}

func (f *rollupFixture) addJourney(name string) models.Journey {
	journey := models.Journey{ID: uuid.New(), Name: name}
	f.catalog.journeys = append(f.catalog.journeys, journey)
	return journey
}

func (f *rollupFixture) addActivity(journey models.Journey, name string) models.Activity {
	activity := models.Activity{ID: uuid.New(), JourneyID: journey.ID, Name: name}
	f.catalog.activities[journey.ID] = append(f.catalog.activities[journey.ID], activity)
	return activity
}

func (f *rollupFixture) addService(activity models.Activity, name string) models.Service {
	service := models.Service{ID: uuid.New(), ActivityID: activity.ID, Name: name}
	f.catalog.services[activity.ID] = append(f.catalog.services[activity.ID], service)
	return service
}

// seedEvaluations creates implemented evaluations followed by not_implemented
// ones so the service tallies implemented out of total.
func (f *rollupFixture) seedEvaluations(service models.Service, implemented, total int) {
	for i := 0; i < total; i++ {
		status := models.EvaluationNotImplemented
		if i < implemented {
			status = models.EvaluationImplemented
		}
		f.evals.seed(&models.Evaluation{
			ServiceID:     service.ID,
			MeasurementID: uuid.New(),
			CampaignID:    f.campaign.ID,
			Status:        status,
		})
	}
}

func TestMaturityLevelFor_BandEdges(t *testing.T) {
	cases := []struct {
		percentage float64
		level      int
	}{
		{0, 0},
		{24.99, 0},
		{25, 1},
		{49.99, 1},
		{50, 2},
		{74.99, 2},
		{75, 3},
		{99.99, 3},
		{100, 4},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, models.MaturityLevelFor(tc.percentage), "%.2f%%", tc.percentage)
	}
}

func TestRollup_ServicePercentage(t *testing.T) {
	f := newRollupFixture(t)
	journey := f.addJourney("Onboarding")
	activity := f.addActivity(journey, "Identity")
	service := f.addService(activity, "auth-service")

	// 4 of 6 implemented: 66.67% sits in the level 2 band.
	f.seedEvaluations(service, 4, 6)

	result, err := f.service.Rollup(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	require.Len(t, result.JourneyResults, 1)
	require.Len(t, result.JourneyResults[0].ActivityResults, 1)
	require.Len(t, result.JourneyResults[0].ActivityResults[0].ServiceResults, 1)

	got := result.JourneyResults[0].ActivityResults[0].ServiceResults[0]
	assert.Equal(t, service.ID, got.ServiceID)
	assert.InDelta(t, 66.67, got.Percentage, 0.01)
	assert.Equal(t, 2, got.MaturityLevel)
}

func TestRollup_MinAggregationUpTheHierarchy(t *testing.T) {
	f := newRollupFixture(t)
	journey := f.addJourney("Payments")
	activityA := f.addActivity(journey, "Checkout")
	activityB := f.addActivity(journey, "Settlement")

	strong := f.addService(activityA, "cart-service")
	f.seedEvaluations(strong, 3, 4) // 75% -> level 3
	weak := f.addService(activityA, "pricing-service")
	f.seedEvaluations(weak, 1, 4) // 25% -> level 1

	solid := f.addService(activityB, "ledger-service")
	f.seedEvaluations(solid, 4, 4) // 100% -> level 4

	result, err := f.service.Rollup(context.Background(), f.campaign.ID)
	require.NoError(t, err)
	require.Len(t, result.JourneyResults, 1)

	journeyResult := result.JourneyResults[0]
	require.Len(t, journeyResult.ActivityResults, 2)
	assert.Equal(t, 1, journeyResult.ActivityResults[0].MaturityLevel, "checkout takes the weakest service level")
	assert.Equal(t, 4, journeyResult.ActivityResults[1].MaturityLevel)
	assert.Equal(t, 1, journeyResult.MaturityLevel, "journey takes the weakest activity level")
}

func TestRollup_OverallIsFlatNotMin(t *testing.T) {
	f := newRollupFixture(t)
	journey := f.addJourney("Operations")
	activity := f.addActivity(journey, "Resilience")

	serviceA := f.addService(activity, "gateway")
	f.seedEvaluations(serviceA, 5, 5) // 100% -> level 4
	serviceB := f.addService(activity, "batch-runner")
	f.seedEvaluations(serviceB, 1, 5) // 20% -> level 0

	result, err := f.service.Rollup(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	// Min-aggregation would say level 0; the overall is the flat 6/10 share.
	assert.InDelta(t, 60.0, result.OverallPercentage, 0.01)
	assert.Equal(t, 2, result.OverallLevel)
	assert.Equal(t, 0, result.JourneyResults[0].MaturityLevel)
}

func TestRollup_EntitiesWithoutEvaluationsAreOmitted(t *testing.T) {
	f := newRollupFixture(t)

	scored := f.addJourney("Scored")
	scoredActivity := f.addActivity(scored, "Active")
	scoredService := f.addService(scoredActivity, "api")
	f.seedEvaluations(scoredService, 2, 2)

	// A fully wired catalog branch with no evaluations at all.
	empty := f.addJourney("Unscored")
	emptyActivity := f.addActivity(empty, "Idle")
	f.addService(emptyActivity, "dormant-service")

	// An activity under the scored journey whose only service has no evaluations.
	idleActivity := f.addActivity(scored, "Idle Too")
	f.addService(idleActivity, "other-dormant")

	result, err := f.service.Rollup(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	require.Len(t, result.JourneyResults, 1)
	assert.Equal(t, "Scored", result.JourneyResults[0].JourneyName)
	require.Len(t, result.JourneyResults[0].ActivityResults, 1)
	assert.Equal(t, "Active", result.JourneyResults[0].ActivityResults[0].ActivityName)
}

func TestRollup_EmptyCampaign(t *testing.T) {
	f := newRollupFixture(t)
	journey := f.addJourney("Anything")
	activity := f.addActivity(journey, "At All")
	f.addService(activity, "some-service")

	result, err := f.service.Rollup(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	assert.Empty(t, result.JourneyResults)
	assert.Equal(t, 0.0, result.OverallPercentage)
	assert.Equal(t, 0, result.OverallLevel)
}

func TestRollup_UnknownCampaign(t *testing.T) {
	f := newRollupFixture(t)

	_, err := f.service.Rollup(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDistribution_CountsUnscoredServicesAtLevelZero(t *testing.T) {
	f := newRollupFixture(t)
	journey := f.addJourney("Everything")
	activity := f.addActivity(journey, "All Services")

	perfect := f.addService(activity, "perfect")
	f.seedEvaluations(perfect, 2, 2) // level 4
	middling := f.addService(activity, "middling")
	f.seedEvaluations(middling, 1, 2) // 50% -> level 2
	f.addService(activity, "untouched")

	distribution, err := f.service.Distribution(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, distribution.Total)
	assert.Equal(t, 1, distribution.Levels[0], "a service with zero evaluations counts at level 0 here")
	assert.Equal(t, 0, distribution.Levels[1])
	assert.Equal(t, 1, distribution.Levels[2])
	assert.Equal(t, 0, distribution.Levels[3])
	assert.Equal(t, 1, distribution.Levels[4])
}

func TestDistribution_AllLevelsPresentInMap(t *testing.T) {
	f := newRollupFixture(t)

	distribution, err := f.service.Distribution(context.Background(), f.campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, distribution.Total)
	for level := 0; level <= 4; level++ {
		_, ok := distribution.Levels[level]
		assert.True(t, ok, "level %d missing from the histogram", level)
	}
}
