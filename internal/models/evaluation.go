package models

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationKey identifies one evaluation by its (service, measurement, campaign)
// triple. The triple is unique; the row also carries a synthetic uuid.
type EvaluationKey struct {
	ServiceID     uuid.UUID `json:"service_id"`
	MeasurementID uuid.UUID `json:"measurement_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
}

// Evaluation is the compliance record of one service against one measurement
// within one campaign.
type Evaluation struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	ServiceID        uuid.UUID        `db:"service_id" json:"service_id"`
	MeasurementID    uuid.UUID        `db:"measurement_id" json:"measurement_id"`
	CampaignID       uuid.UUID        `db:"campaign_id" json:"campaign_id"`
	Status           EvaluationStatus `db:"status" json:"status"`
	EvidenceLocation *string          `db:"evidence_location" json:"evidence_location,omitempty"`
	Notes            *string          `db:"notes" json:"notes,omitempty"`
	ValidationReport *string          `db:"validation_report" json:"validation_report,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// Key returns the identifying triple of the evaluation.
func (e *Evaluation) Key() EvaluationKey {
	return EvaluationKey{
		ServiceID:     e.ServiceID,
		MeasurementID: e.MeasurementID,
		CampaignID:    e.CampaignID,
	}
}

// EvidenceLocationValue returns the evidence location or "" when unset.
func (e *Evaluation) EvidenceLocationValue() string {
	if e.EvidenceLocation == nil {
		return ""
	}
	return *e.EvidenceLocation
}

// NotesValue returns the notes or "" when unset.
func (e *Evaluation) NotesValue() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// EvaluationHistory is one immutable audit entry. Rows are append-only and
// ordered newest-first when listed.
type EvaluationHistory struct {
	ID                uuid.UUID         `db:"id" json:"id"`
	EvaluationID      uuid.UUID         `db:"evaluation_id" json:"evaluation_id"`
	ChangeType        HistoryChangeType `db:"change_type" json:"change_type"`
	PreviousStatus    *EvaluationStatus `db:"previous_status" json:"previous_status,omitempty"`
	NewStatus         *EvaluationStatus `db:"new_status" json:"new_status,omitempty"`
	PreviousValue     *string           `db:"previous_value" json:"previous_value,omitempty"`
	NewValue          *string           `db:"new_value" json:"new_value,omitempty"`
	ChangeReason      *string           `db:"change_reason" json:"change_reason,omitempty"`
	ValidationResults *string           `db:"validation_results" json:"validation_results,omitempty"`
	ChangedBy         *string           `db:"changed_by" json:"changed_by,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
}
