package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"maturity-service/internal/database/minio"
	"maturity-service/internal/models"

	"github.com/google/uuid"
)

const validationMarkerTTL = 5 * time.Minute

// EvaluationService is the authority over evaluation status transitions.
// Every state change goes through here and leaves an audit trail entry.
type EvaluationService struct {
	evalRepo     EvaluationStore
	historyRepo  HistoryStore
	campaignRepo CampaignStore
	locker       EvalLocker
	markers      ValidationMarkerStore
	queue        ValidationQueue
	validator    *EvidenceValidator
	notifier     StatusNotifier
	reports      ReportArchiver
}

func NewEvaluationService(
	evalRepo EvaluationStore,
	historyRepo HistoryStore,
	campaignRepo CampaignStore,
	locker EvalLocker,
	markers ValidationMarkerStore,
	queue ValidationQueue,
	validator *EvidenceValidator,
	notifier StatusNotifier,
	reports ReportArchiver,
) *EvaluationService {
	return &EvaluationService{
		evalRepo:     evalRepo,
		historyRepo:  historyRepo,
		campaignRepo: campaignRepo,
		locker:       locker,
		markers:      markers,
		queue:        queue,
		validator:    validator,
		notifier:     notifier,
		reports:      reports,
	}
}

// SubmitEvidence records an evidence submission. The evaluation is created
// lazily on first touch and always ends up in evidence_submitted, whatever
// its prior status.
func (s *EvaluationService) SubmitEvidence(ctx context.Context, key models.EvaluationKey, evidenceLocation, notes string, actor *string) (*models.Evaluation, error) {
	if evidenceLocation == "" {
		return nil, models.NewValidationError("MISSING_EVIDENCE_LOCATION", "evidence_location is required")
	}

	if err := s.requireOpenCampaign(ctx, key.CampaignID); err != nil {
		return nil, err
	}

	release, err := s.locker.AcquireEvalLock(ctx, key.ServiceID, key.MeasurementID, key.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock evaluation: %w", err)
	}
	defer release()

	evaluation, err := s.evalRepo.GetOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}

	previousEvidence := evaluation.EvidenceLocationValue()
	previousNotes := evaluation.NotesValue()
	previousStatus := evaluation.Status

	evaluation.EvidenceLocation = &evidenceLocation
	if notes != "" {
		evaluation.Notes = &notes
	}
	evaluation.Status = models.EvaluationEvidenceSubmitted

	updated, err := s.evalRepo.Update(ctx, evaluation)
	if err != nil {
		return nil, err
	}

	// History entries in a fixed order so audit replay is reproducible:
	// evidence, then notes, then status.
	if previousEvidence != evidenceLocation {
		s.appendHistory(ctx, &models.EvaluationHistory{
			EvaluationID:  updated.ID,
			ChangeType:    models.HistoryEvidenceUpdate,
			PreviousValue: optionalString(previousEvidence),
			NewValue:      &evidenceLocation,
			ChangedBy:     actor,
		})
	}
	if notes != "" && previousNotes != notes {
		s.appendHistory(ctx, &models.EvaluationHistory{
			EvaluationID:  updated.ID,
			ChangeType:    models.HistoryNotesUpdate,
			PreviousValue: optionalString(previousNotes),
			NewValue:      &notes,
			ChangedBy:     actor,
		})
	}
	if previousStatus != updated.Status {
		s.appendHistory(ctx, &models.EvaluationHistory{
			EvaluationID:   updated.ID,
			ChangeType:     models.HistoryStatusChange,
			PreviousStatus: &previousStatus,
			NewStatus:      &updated.Status,
			ChangedBy:      actor,
		})
		s.notifyStatusChanged(ctx, updated, previousStatus, updated.Status)
	}

	return updated, nil
}

// SetStatus applies a caller-requested status change. Any status can be set
// from any status; the only constraint is enum membership. Setting
// validating_evidence schedules an asynchronous validation run.
func (s *EvaluationService) SetStatus(ctx context.Context, key models.EvaluationKey, newStatus models.EvaluationStatus, changeReason string, actor *string) (*models.Evaluation, error) {
	if !models.IsValidEvaluationStatus(newStatus) {
		return nil, models.NewValidationError("INVALID_STATUS", fmt.Sprintf("unrecognized status value: %s", newStatus))
	}

	if err := s.requireOpenCampaign(ctx, key.CampaignID); err != nil {
		return nil, err
	}

	release, err := s.locker.AcquireEvalLock(ctx, key.ServiceID, key.MeasurementID, key.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock evaluation: %w", err)
	}
	defer release()

	evaluation, err := s.evalRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	previousStatus := evaluation.Status
	evaluation.Status = newStatus

	updated, err := s.evalRepo.Update(ctx, evaluation)
	if err != nil {
		return nil, err
	}

	s.appendHistory(ctx, &models.EvaluationHistory{
		EvaluationID:   updated.ID,
		ChangeType:     models.HistoryStatusChange,
		PreviousStatus: &previousStatus,
		NewStatus:      &newStatus,
		ChangeReason:   optionalString(changeReason),
		ChangedBy:      actor,
	})

	if previousStatus != newStatus {
		s.notifyStatusChanged(ctx, updated, previousStatus, newStatus)
	}

	if newStatus == models.EvaluationValidatingEvidence {
		s.scheduleValidation(ctx, updated.ID)
	}

	return updated, nil
}

// scheduleValidation enqueues a background validation run for the evaluation,
// deduplicating against one already in flight.
func (s *EvaluationService) scheduleValidation(ctx context.Context, evaluationID uuid.UUID) {
	marked, err := s.markers.MarkValidationInFlight(ctx, evaluationID, validationMarkerTTL)
	if err != nil {
		slog.Error("Failed to mark validation in flight, scheduling anyway", "evaluation_id", evaluationID, "error", err)
	} else if !marked {
		slog.Info("Validation already in flight, skipping", "evaluation_id", evaluationID)
		return
	}

	submitted := s.queue.Submit(func(jobCtx context.Context) {
		s.runValidation(jobCtx, evaluationID)
	})
	if !submitted {
		slog.Error("Validation queue saturated, dropping job", "evaluation_id", evaluationID)
		if err := s.markers.ClearValidationInFlight(ctx, evaluationID); err != nil {
			slog.Error("Failed to clear validation marker", "evaluation_id", evaluationID, "error", err)
		}
	}
}

// runValidation executes on a worker goroutine. It re-reads current state and
// hands the report to ApplyValidationResult, which performs the staleness check.
func (s *EvaluationService) runValidation(ctx context.Context, evaluationID uuid.UUID) {
	defer func() {
		if err := s.markers.ClearValidationInFlight(ctx, evaluationID); err != nil {
			slog.Error("Failed to clear validation marker", "evaluation_id", evaluationID, "error", err)
		}
	}()

	evaluation, err := s.evalRepo.GetByID(ctx, evaluationID)
	if err != nil {
		// Deleted mid-flight is a no-op, not an error.
		slog.Info("Evaluation gone before validation, discarding", "evaluation_id", evaluationID, "error", err)
		return
	}

	report := s.validator.Validate(ctx, evaluation)

	if err := s.ApplyValidationResult(ctx, evaluationID, report); err != nil {
		slog.Error("Failed to apply validation result", "evaluation_id", evaluationID, "error", err)
	}
}

// ApplyValidationResult applies a validator verdict. It only acts while the
// evaluation is still in validating_evidence: a result arriving after the
// status has moved on is discarded, which is what protects manual overrides
// from slow stale validations.
func (s *EvaluationService) ApplyValidationResult(ctx context.Context, evaluationID uuid.UUID, report models.ValidationReport) error {
	evaluation, err := s.evalRepo.GetByID(ctx, evaluationID)
	if err != nil {
		slog.Info("Evaluation missing on validation result, discarding", "evaluation_id", evaluationID)
		return nil
	}

	release, err := s.locker.AcquireEvalLock(ctx, evaluation.ServiceID, evaluation.MeasurementID, evaluation.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to lock evaluation: %w", err)
	}
	defer release()

	// Re-read under the lock; a manual change may have raced us here.
	evaluation, err = s.evalRepo.GetByID(ctx, evaluationID)
	if err != nil {
		slog.Info("Evaluation missing on validation result, discarding", "evaluation_id", evaluationID)
		return nil
	}

	if evaluation.Status != models.EvaluationValidatingEvidence {
		slog.Info("Stale validation result discarded",
			"evaluation_id", evaluationID,
			"current_status", evaluation.Status)
		return nil
	}

	serialized, err := report.Serialize()
	if err != nil {
		return err
	}

	previousStatus := evaluation.Status
	if report.Valid {
		evaluation.Status = models.EvaluationImplemented
	} else {
		evaluation.Status = models.EvaluationEvidenceRejected
	}
	evaluation.ValidationReport = &serialized

	updated, err := s.evalRepo.Update(ctx, evaluation)
	if err != nil {
		return err
	}

	s.appendHistory(ctx, &models.EvaluationHistory{
		EvaluationID:      updated.ID,
		ChangeType:        models.HistoryValidationResult,
		PreviousStatus:    &previousStatus,
		NewStatus:         &updated.Status,
		ValidationResults: &serialized,
		ChangedBy:         nil, // system-originated
	})

	s.notifyStatusChanged(ctx, updated, previousStatus, updated.Status)
	s.archiveReport(ctx, updated.ID, serialized)

	return nil
}

// GetEvaluation retrieves one evaluation by its synthetic id.
func (s *EvaluationService) GetEvaluation(ctx context.Context, id uuid.UUID) (*models.Evaluation, error) {
	return s.evalRepo.GetByID(ctx, id)
}

// LookupEvaluation retrieves one evaluation by its identifying triple.
func (s *EvaluationService) LookupEvaluation(ctx context.Context, key models.EvaluationKey) (*models.Evaluation, error) {
	return s.evalRepo.GetByKey(ctx, key)
}

// History retrieves the audit trail for an evaluation, newest first.
func (s *EvaluationService) History(ctx context.Context, evaluationID uuid.UUID) ([]models.EvaluationHistory, error) {
	if _, err := s.evalRepo.GetByID(ctx, evaluationID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByEvaluation(ctx, evaluationID)
}

func (s *EvaluationService) requireOpenCampaign(ctx context.Context, campaignID uuid.UUID) error {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status == models.CampaignClosed {
		return models.NewValidationError("CAMPAIGN_CLOSED", "campaign is closed; evaluations can no longer change")
	}
	return nil
}

func (s *EvaluationService) appendHistory(ctx context.Context, entry *models.EvaluationHistory) {
	if _, err := s.historyRepo.Append(ctx, entry); err != nil {
		slog.Error("Failed to append history entry",
			"evaluation_id", entry.EvaluationID,
			"change_type", entry.ChangeType,
			"error", err)
	}
}

func (s *EvaluationService) notifyStatusChanged(ctx context.Context, evaluation *models.Evaluation, previous, next models.EvaluationStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishStatusChanged(ctx, evaluation, previous, next); err != nil {
		slog.Error("Failed to publish status change notification",
			"evaluation_id", evaluation.ID,
			"error", err)
	}
}

func (s *EvaluationService) archiveReport(ctx context.Context, evaluationID uuid.UUID, serialized string) {
	if s.reports == nil {
		return
	}
	objectName := fmt.Sprintf("%s/%d.json", evaluationID, time.Now().UnixNano())
	err := s.reports.UploadBytes(ctx, minio.Storage.ValidationReports, objectName, []byte(serialized), "application/json")
	if err != nil {
		slog.Error("Failed to archive validation report", "evaluation_id", evaluationID, "error", err)
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
