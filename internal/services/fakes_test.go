package services

import (
	"context"
	"sync"
	"time"

	"maturity-service/internal/models"
	"maturity-service/internal/worker"

	"github.com/google/uuid"
)

// In-memory stand-ins for the sqlx repositories and infrastructure clients.

type fakeEvaluationStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*models.Evaluation
	byKey map[models.EvaluationKey]uuid.UUID
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{
		byID:  make(map[uuid.UUID]*models.Evaluation),
		byKey: make(map[models.EvaluationKey]uuid.UUID),
	}
}

func (s *fakeEvaluationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evaluation, ok := s.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *evaluation
	return &clone, nil
}

func (s *fakeEvaluationStore) GetByKey(_ context.Context, key models.EvaluationKey) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}

func (s *fakeEvaluationStore) GetOrCreate(_ context.Context, key models.EvaluationKey) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[key]; ok {
		clone := *s.byID[id]
		return &clone, nil
	}
	evaluation := &models.Evaluation{
		ID:            uuid.New(),
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationNotImplemented,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	s.byID[evaluation.ID] = evaluation
	s.byKey[key] = evaluation.ID
	clone := *evaluation
	return &clone, nil
}

func (s *fakeEvaluationStore) Update(_ context.Context, evaluation *models.Evaluation) (*models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[evaluation.ID]; !ok {
		return nil, models.ErrNotFound
	}
	clone := *evaluation
	clone.UpdatedAt = time.Now()
	s.byID[evaluation.ID] = &clone
	returned := clone
	return &returned, nil
}

func (s *fakeEvaluationStore) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]models.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evaluations []models.Evaluation
	for _, evaluation := range s.byID {
		if evaluation.CampaignID == campaignID {
			evaluations = append(evaluations, *evaluation)
		}
	}
	return evaluations, nil
}

// seed inserts an evaluation directly, bypassing the state machine.
func (s *fakeEvaluationStore) seed(evaluation *models.Evaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if evaluation.ID == uuid.Nil {
		evaluation.ID = uuid.New()
	}
	s.byID[evaluation.ID] = evaluation
	s.byKey[evaluation.Key()] = evaluation.ID
}

type fakeHistoryStore struct {
	mu      sync.Mutex
	entries []models.EvaluationHistory
}

func (s *fakeHistoryStore) Append(_ context.Context, entry *models.EvaluationHistory) (*models.EvaluationHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	s.entries = append(s.entries, stored)
	return &stored, nil
}

func (s *fakeHistoryStore) ListByEvaluation(_ context.Context, evaluationID uuid.UUID) ([]models.EvaluationHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.EvaluationHistory
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].EvaluationID == evaluationID {
			matched = append(matched, s.entries[i])
		}
	}
	return matched, nil
}

func (s *fakeHistoryStore) forEvaluation(evaluationID uuid.UUID) []models.EvaluationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.EvaluationHistory
	for _, entry := range s.entries {
		if entry.EvaluationID == evaluationID {
			matched = append(matched, entry)
		}
	}
	return matched
}

type fakeCampaignStore struct {
	campaigns map[uuid.UUID]*models.Campaign
}

func newFakeCampaignStore(campaigns ...*models.Campaign) *fakeCampaignStore {
	store := &fakeCampaignStore{campaigns: make(map[uuid.UUID]*models.Campaign)}
	for _, campaign := range campaigns {
		store.campaigns[campaign.ID] = campaign
	}
	return store
}

func (s *fakeCampaignStore) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return campaign, nil
}

type fakeCatalogStore struct {
	journeys   []models.Journey
	activities map[uuid.UUID][]models.Activity
	services   map[uuid.UUID][]models.Service
}

func (s *fakeCatalogStore) ListJourneys(_ context.Context) ([]models.Journey, error) {
	return s.journeys, nil
}

func (s *fakeCatalogStore) ActivitiesOf(_ context.Context, journeyID uuid.UUID) ([]models.Activity, error) {
	return s.activities[journeyID], nil
}

func (s *fakeCatalogStore) ServicesOf(_ context.Context, activityID uuid.UUID) ([]models.Service, error) {
	return s.services[activityID], nil
}

func (s *fakeCatalogStore) ListServices(_ context.Context) ([]models.Service, error) {
	var all []models.Service
	for _, list := range s.services {
		all = append(all, list...)
	}
	return all, nil
}

type fakeLocker struct{}

func (fakeLocker) AcquireEvalLock(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (func(), error) {
	return func() {}, nil
}

type fakeMarkerStore struct {
	mu      sync.Mutex
	pending map[uuid.UUID]bool
}

func newFakeMarkerStore() *fakeMarkerStore {
	return &fakeMarkerStore{pending: make(map[uuid.UUID]bool)}
}

func (s *fakeMarkerStore) MarkValidationInFlight(_ context.Context, evaluationID uuid.UUID, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[evaluationID] {
		return false, nil
	}
	s.pending[evaluationID] = true
	return true, nil
}

func (s *fakeMarkerStore) ClearValidationInFlight(_ context.Context, evaluationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, evaluationID)
	return nil
}

// fakeQueue collects submitted jobs so tests control when they run.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []worker.Job
}

func (q *fakeQueue) Submit(job worker.Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *fakeQueue) runAll(ctx context.Context) {
	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()
	for _, job := range jobs {
		job(ctx)
	}
}

func (q *fakeQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

type fakeObjectFetcher struct {
	content map[string][]byte
}

func (f *fakeObjectFetcher) FetchObjectLocation(_ context.Context, location string) ([]byte, error) {
	data, ok := f.content[location]
	if !ok {
		return nil, models.ErrNotFound
	}
	return data, nil
}
