package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmitEvidenceRequest is the body of POST /evaluations/evidence.
type SubmitEvidenceRequest struct {
	ServiceID        uuid.UUID `json:"service_id"`
	MeasurementID    uuid.UUID `json:"measurement_id"`
	CampaignID       uuid.UUID `json:"campaign_id"`
	EvidenceLocation string    `json:"evidence_location"`
	Notes            string    `json:"notes"`
}

func (r *SubmitEvidenceRequest) Validate() error {
	if r.ServiceID == uuid.Nil || r.MeasurementID == uuid.Nil || r.CampaignID == uuid.Nil {
		return NewValidationError("MISSING_IDENTIFIERS", "service_id, measurement_id and campaign_id are required")
	}
	if strings.TrimSpace(r.EvidenceLocation) == "" {
		return NewValidationError("MISSING_EVIDENCE_LOCATION", "evidence_location is required")
	}
	return nil
}

func (r *SubmitEvidenceRequest) Key() EvaluationKey {
	return EvaluationKey{ServiceID: r.ServiceID, MeasurementID: r.MeasurementID, CampaignID: r.CampaignID}
}

// SetStatusRequest is the body of POST /evaluations/status.
type SetStatusRequest struct {
	ServiceID     uuid.UUID        `json:"service_id"`
	MeasurementID uuid.UUID        `json:"measurement_id"`
	CampaignID    uuid.UUID        `json:"campaign_id"`
	Status        EvaluationStatus `json:"status"`
	ChangeReason  string           `json:"change_reason"`
}

func (r *SetStatusRequest) Validate() error {
	if r.ServiceID == uuid.Nil || r.MeasurementID == uuid.Nil || r.CampaignID == uuid.Nil {
		return NewValidationError("MISSING_IDENTIFIERS", "service_id, measurement_id and campaign_id are required")
	}
	if !IsValidEvaluationStatus(r.Status) {
		return NewValidationError("INVALID_STATUS", "status must be one of not_implemented, evidence_submitted, validating_evidence, implemented, evidence_rejected")
	}
	return nil
}

func (r *SetStatusRequest) Key() EvaluationKey {
	return EvaluationKey{ServiceID: r.ServiceID, MeasurementID: r.MeasurementID, CampaignID: r.CampaignID}
}

// CreateCampaignRequest is the body of POST /campaigns.
type CreateCampaignRequest struct {
	Name          string     `json:"name"`
	MaturityModel string     `json:"maturity_model"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
}

func (r *CreateCampaignRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("MISSING_NAME", "campaign name is required")
	}
	if strings.TrimSpace(r.MaturityModel) == "" {
		return NewValidationError("MISSING_MATURITY_MODEL", "maturity_model is required")
	}
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return NewValidationError("INVALID_WINDOW", "ends_at must not precede starts_at")
	}
	return nil
}

// CreateJourneyRequest is the body of POST /catalog/journeys.
type CreateJourneyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateJourneyRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("MISSING_NAME", "journey name is required")
	}
	return nil
}

// CreateActivityRequest is the body of POST /catalog/activities.
type CreateActivityRequest struct {
	JourneyID   uuid.UUID `json:"journey_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (r *CreateActivityRequest) Validate() error {
	if r.JourneyID == uuid.Nil {
		return NewValidationError("MISSING_JOURNEY_ID", "journey_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("MISSING_NAME", "activity name is required")
	}
	return nil
}

// CreateServiceRequest is the body of POST /catalog/services.
type CreateServiceRequest struct {
	ActivityID  uuid.UUID `json:"activity_id"`
	Name        string    `json:"name"`
	OwnerTeam   string    `json:"owner_team"`
	Description string    `json:"description"`
}

func (r *CreateServiceRequest) Validate() error {
	if r.ActivityID == uuid.Nil {
		return NewValidationError("MISSING_ACTIVITY_ID", "activity_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("MISSING_NAME", "service name is required")
	}
	return nil
}

// CreateMeasurementRequest is the body of POST /catalog/measurements.
type CreateMeasurementRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	EvidenceType EvidenceType `json:"evidence_type"`
}

func (r *CreateMeasurementRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("MISSING_NAME", "measurement name is required")
	}
	if r.EvidenceType == "" {
		r.EvidenceType = EvidenceURL
	}
	if !IsValidEvidenceType(r.EvidenceType) {
		return NewValidationError("INVALID_EVIDENCE_TYPE", "evidence_type must be one of url, document, free_text")
	}
	return nil
}
