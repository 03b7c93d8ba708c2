package services

import (
	"context"
	"testing"

	"maturity-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evaluationServiceFixture struct {
	service    *EvaluationService
	evals      *fakeEvaluationStore
	history    *fakeHistoryStore
	queue      *fakeQueue
	markers    *fakeMarkerStore
	campaignID uuid.UUID
}

func newEvaluationServiceFixture(t *testing.T) *evaluationServiceFixture {
	t.Helper()

	campaign := &models.Campaign{
		ID:            uuid.New(),
		Name:          "2026 Q1 Operational Readiness",
		MaturityModel: "ops-readiness-v2",
		Status:        models.CampaignActive,
	}

	evals := newFakeEvaluationStore()
	history := &fakeHistoryStore{}
	queue := &fakeQueue{}
	markers := newFakeMarkerStore()
	validator := NewEvidenceValidator(nil)

	service := NewEvaluationService(
		evals, history, newFakeCampaignStore(campaign),
		fakeLocker{}, markers, queue, validator, nil, nil)

	return &evaluationServiceFixture{
		service:    service,
		evals:      evals,
		history:    history,
		queue:      queue,
		markers:    markers,
		campaignID: campaign.ID,
	}
}

func (f *evaluationServiceFixture) key() models.EvaluationKey {
	return models.EvaluationKey{
		ServiceID:     uuid.New(),
		MeasurementID: uuid.New(),
		CampaignID:    f.campaignID,
	}
}

func TestSubmitEvidence_MissingEvidenceLocation(t *testing.T) {
	f := newEvaluationServiceFixture(t)

	_, err := f.service.SubmitEvidence(context.Background(), f.key(), "", "some notes", nil)

	ve, ok := models.AsValidationError(err)
	require.True(t, ok, "expected a ValidationError")
	assert.Equal(t, "MISSING_EVIDENCE_LOCATION", ve.Code)
	assert.Empty(t, f.history.entries, "a rejected submission must not produce history")
}

func TestSubmitEvidence_CreatesEvaluationLazily(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()

	evaluation, err := f.service.SubmitEvidence(context.Background(),
		key, "https://wiki.example.com/runbook", "Centralized logging rolled out to prod", nil)
	require.NoError(t, err)

	assert.Equal(t, models.EvaluationEvidenceSubmitted, evaluation.Status)
	assert.Equal(t, "https://wiki.example.com/runbook", evaluation.EvidenceLocationValue())
	assert.Equal(t, key, evaluation.Key())
}

func TestSubmitEvidence_HistoryEntriesInStableOrder(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()

	evaluation, err := f.service.SubmitEvidence(context.Background(),
		key, "https://wiki.example.com/doc", "Fully deployed across all regions", nil)
	require.NoError(t, err)

	entries := f.history.forEvaluation(evaluation.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, models.HistoryEvidenceUpdate, entries[0].ChangeType)
	assert.Equal(t, models.HistoryNotesUpdate, entries[1].ChangeType)
	assert.Equal(t, models.HistoryStatusChange, entries[2].ChangeType)

	require.NotNil(t, entries[2].PreviousStatus)
	assert.Equal(t, models.EvaluationNotImplemented, *entries[2].PreviousStatus)
	require.NotNil(t, entries[2].NewStatus)
	assert.Equal(t, models.EvaluationEvidenceSubmitted, *entries[2].NewStatus)
}

func TestSubmitEvidence_UnchangedValuesEmitNoEntries(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()

	first, err := f.service.SubmitEvidence(context.Background(),
		key, "https://wiki.example.com/doc", "Fully deployed across all regions", nil)
	require.NoError(t, err)
	before := len(f.history.forEvaluation(first.ID))

	// Same evidence, same notes, already evidence_submitted: nothing changed.
	_, err = f.service.SubmitEvidence(context.Background(),
		key, "https://wiki.example.com/doc", "Fully deployed across all regions", nil)
	require.NoError(t, err)

	assert.Equal(t, before, len(f.history.forEvaluation(first.ID)))
}

func TestSubmitEvidence_ResetsAnyPriorStatus(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()

	for _, prior := range []models.EvaluationStatus{
		models.EvaluationImplemented,
		models.EvaluationEvidenceRejected,
		models.EvaluationValidatingEvidence,
	} {
		f.evals.seed(&models.Evaluation{
			ServiceID:     key.ServiceID,
			MeasurementID: key.MeasurementID,
			CampaignID:    key.CampaignID,
			Status:        prior,
		})

		evaluation, err := f.service.SubmitEvidence(context.Background(),
			key, "https://wiki.example.com/new-evidence", "Re-verified after the incident review", nil)
		require.NoError(t, err)
		assert.Equal(t, models.EvaluationEvidenceSubmitted, evaluation.Status, "prior status %s", prior)

		key = f.key()
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	f := newEvaluationServiceFixture(t)

	_, err := f.service.SetStatus(context.Background(), f.key(), "half_done", "", nil)

	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATUS", ve.Code)
}

func TestSetStatus_MissingEvaluation(t *testing.T) {
	f := newEvaluationServiceFixture(t)

	_, err := f.service.SetStatus(context.Background(), f.key(), models.EvaluationImplemented, "", nil)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetStatus_AnyToAnyTransitionAllowed(t *testing.T) {
	f := newEvaluationServiceFixture(t)

	statuses := []models.EvaluationStatus{
		models.EvaluationNotImplemented,
		models.EvaluationEvidenceSubmitted,
		models.EvaluationValidatingEvidence,
		models.EvaluationImplemented,
		models.EvaluationEvidenceRejected,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			key := f.key()
			f.evals.seed(&models.Evaluation{
				ServiceID:     key.ServiceID,
				MeasurementID: key.MeasurementID,
				CampaignID:    key.CampaignID,
				Status:        from,
			})

			evaluation, err := f.service.SetStatus(context.Background(), key, to, "operator correction", nil)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, evaluation.Status)
		}
	}
}

func TestSetStatus_EmitsSingleStatusChangeEntry(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	actor := "operator-7"

	f.evals.seed(&models.Evaluation{
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationImplemented,
	})

	evaluation, err := f.service.SetStatus(context.Background(),
		key, models.EvaluationNotImplemented, "evidence was for the wrong quarter", &actor)
	require.NoError(t, err)

	entries := f.history.forEvaluation(evaluation.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryStatusChange, entries[0].ChangeType)
	require.NotNil(t, entries[0].ChangeReason)
	assert.Equal(t, "evidence was for the wrong quarter", *entries[0].ChangeReason)
	require.NotNil(t, entries[0].ChangedBy)
	assert.Equal(t, actor, *entries[0].ChangedBy)
}

func TestSetStatus_SchedulesValidationWithoutBlocking(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	f.evals.seed(&models.Evaluation{
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationEvidenceSubmitted,
	})

	evaluation, err := f.service.SetStatus(context.Background(),
		key, models.EvaluationValidatingEvidence, "", nil)
	require.NoError(t, err)

	// Still validating until a worker runs the queued job.
	assert.Equal(t, models.EvaluationValidatingEvidence, evaluation.Status)
	assert.Equal(t, 1, f.queue.size())
}

func TestSetStatus_DedupsInFlightValidation(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	f.evals.seed(&models.Evaluation{
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationEvidenceSubmitted,
	})

	_, err := f.service.SetStatus(context.Background(), key, models.EvaluationValidatingEvidence, "", nil)
	require.NoError(t, err)
	_, err = f.service.SetStatus(context.Background(), key, models.EvaluationValidatingEvidence, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.queue.size(), "second request must not enqueue a duplicate job")
}

func TestSetStatus_ClosedCampaignRejected(t *testing.T) {
	closed := &models.Campaign{
		ID:            uuid.New(),
		Name:          "2025 Q4",
		MaturityModel: "ops-readiness-v2",
		Status:        models.CampaignClosed,
	}

	evals := newFakeEvaluationStore()
	service := NewEvaluationService(
		evals, &fakeHistoryStore{}, newFakeCampaignStore(closed),
		fakeLocker{}, newFakeMarkerStore(), &fakeQueue{}, NewEvidenceValidator(nil), nil, nil)

	key := models.EvaluationKey{ServiceID: uuid.New(), MeasurementID: uuid.New(), CampaignID: closed.ID}
	_, err := service.SetStatus(context.Background(), key, models.EvaluationImplemented, "", nil)

	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "CAMPAIGN_CLOSED", ve.Code)
}

func TestApplyValidationResult_SetsTerminalStatus(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	evidence := "internal design review sign-off"
	f.evals.seed(&models.Evaluation{
		ServiceID:        key.ServiceID,
		MeasurementID:    key.MeasurementID,
		CampaignID:       key.CampaignID,
		Status:           models.EvaluationValidatingEvidence,
		EvidenceLocation: &evidence,
	})
	seeded, err := f.evals.GetByKey(context.Background(), key)
	require.NoError(t, err)

	report := models.ValidationReport{}
	report.AddCheck(models.CheckNotesQuality, true, "notes look substantive")
	report.Finalize()

	require.NoError(t, f.service.ApplyValidationResult(context.Background(), seeded.ID, report))

	updated, err := f.evals.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationImplemented, updated.Status)
	require.NotNil(t, updated.ValidationReport)

	parsed, err := models.ParseValidationReport(*updated.ValidationReport)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	entries := f.history.forEvaluation(seeded.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryValidationResult, entries[0].ChangeType)
	assert.Nil(t, entries[0].ChangedBy, "validation results are system-originated")
	require.NotNil(t, entries[0].ValidationResults)
}

func TestApplyValidationResult_FailedReportRejectsEvidence(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	f.evals.seed(&models.Evaluation{
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationValidatingEvidence,
	})
	seeded, err := f.evals.GetByKey(context.Background(), key)
	require.NoError(t, err)

	report := models.ValidationReport{}
	report.AddCheck(models.CheckNotesQuality, false, "no notes provided")
	report.Finalize()

	require.NoError(t, f.service.ApplyValidationResult(context.Background(), seeded.ID, report))

	updated, err := f.evals.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationEvidenceRejected, updated.Status)
}

func TestApplyValidationResult_StaleResultDiscarded(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()
	f.evals.seed(&models.Evaluation{
		ServiceID:     key.ServiceID,
		MeasurementID: key.MeasurementID,
		CampaignID:    key.CampaignID,
		Status:        models.EvaluationEvidenceSubmitted,
	})
	seeded, err := f.evals.GetByKey(context.Background(), key)
	require.NoError(t, err)

	// Move to validating and capture the queued job.
	_, err = f.service.SetStatus(context.Background(), key, models.EvaluationValidatingEvidence, "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, f.queue.size())

	// An operator overrides the status before the validation job runs.
	_, err = f.service.SetStatus(context.Background(), key, models.EvaluationImplemented, "verified by hand", nil)
	require.NoError(t, err)

	f.queue.runAll(context.Background())

	updated, err := f.evals.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationImplemented, updated.Status,
		"a stale validation result must never clobber a manual override")

	for _, entry := range f.history.forEvaluation(seeded.ID) {
		assert.NotEqual(t, models.HistoryValidationResult, entry.ChangeType,
			"a discarded result must not leave a validation_result entry")
	}
}

func TestApplyValidationResult_MissingEvaluationIsNoOp(t *testing.T) {
	f := newEvaluationServiceFixture(t)

	report := models.ValidationReport{}
	report.AddCheck(models.CheckNotesQuality, true, "fine")
	report.Finalize()

	assert.NoError(t, f.service.ApplyValidationResult(context.Background(), uuid.New(), report))
	assert.Empty(t, f.history.entries)
}

func TestHistory_ReturnsNewestFirst(t *testing.T) {
	f := newEvaluationServiceFixture(t)
	key := f.key()

	evaluation, err := f.service.SubmitEvidence(context.Background(),
		key, "https://wiki.example.com/doc", "Deployment evidence for the audit", nil)
	require.NoError(t, err)

	_, err = f.service.SetStatus(context.Background(), key, models.EvaluationNotImplemented, "restart assessment", nil)
	require.NoError(t, err)

	entries, err := f.service.History(context.Background(), evaluation.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, models.HistoryStatusChange, entries[0].ChangeType)
	require.NotNil(t, entries[0].NewStatus)
	assert.Equal(t, models.EvaluationNotImplemented, *entries[0].NewStatus)
}
