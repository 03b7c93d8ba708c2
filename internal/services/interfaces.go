package services

import (
	"context"
	"time"

	"maturity-service/internal/models"
	"maturity-service/internal/worker"

	"github.com/google/uuid"
)

// Store interfaces consumed by the services. The sqlx repositories satisfy
// them in production; tests substitute in-memory fakes.

type EvaluationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Evaluation, error)
	GetByKey(ctx context.Context, key models.EvaluationKey) (*models.Evaluation, error)
	GetOrCreate(ctx context.Context, key models.EvaluationKey) (*models.Evaluation, error)
	Update(ctx context.Context, evaluation *models.Evaluation) (*models.Evaluation, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Evaluation, error)
}

type HistoryStore interface {
	Append(ctx context.Context, entry *models.EvaluationHistory) (*models.EvaluationHistory, error)
	ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]models.EvaluationHistory, error)
}

type CampaignStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

type CatalogStore interface {
	ListJourneys(ctx context.Context) ([]models.Journey, error)
	ActivitiesOf(ctx context.Context, journeyID uuid.UUID) ([]models.Activity, error)
	ServicesOf(ctx context.Context, activityID uuid.UUID) ([]models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
}

// EvalLocker serializes read-modify-write on one evaluation record. The
// returned release function is always safe to call.
type EvalLocker interface {
	AcquireEvalLock(ctx context.Context, serviceID, measurementID, campaignID uuid.UUID) (func(), error)
}

// ValidationMarkerStore dedups in-flight validation jobs per evaluation.
type ValidationMarkerStore interface {
	MarkValidationInFlight(ctx context.Context, evaluationID uuid.UUID, ttl time.Duration) (bool, error)
	ClearValidationInFlight(ctx context.Context, evaluationID uuid.UUID) error
}

// ValidationQueue accepts background validation jobs. Submit reports false
// when the queue is saturated.
type ValidationQueue interface {
	Submit(job worker.Job) bool
}

// StatusNotifier publishes status-change events. Publishing is best-effort;
// callers log failures and move on.
type StatusNotifier interface {
	PublishStatusChanged(ctx context.Context, evaluation *models.Evaluation, previous, next models.EvaluationStatus) error
}

// ReportArchiver stores serialized validation reports as objects.
type ReportArchiver interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
}

// ObjectFetcher resolves minio:// evidence locations to stored content.
type ObjectFetcher interface {
	FetchObjectLocation(ctx context.Context, location string) ([]byte, error)
}
