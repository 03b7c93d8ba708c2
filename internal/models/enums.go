package models

type EvaluationStatus string

const (
	EvaluationNotImplemented     EvaluationStatus = "not_implemented"
	EvaluationEvidenceSubmitted  EvaluationStatus = "evidence_submitted"
	EvaluationValidatingEvidence EvaluationStatus = "validating_evidence"
	EvaluationImplemented        EvaluationStatus = "implemented"
	EvaluationEvidenceRejected   EvaluationStatus = "evidence_rejected"
)

// IsValidEvaluationStatus checks if a status is one of the five legal values.
// Transitions themselves are unconstrained; membership is the only rule.
func IsValidEvaluationStatus(status EvaluationStatus) bool {
	switch status {
	case EvaluationNotImplemented, EvaluationEvidenceSubmitted, EvaluationValidatingEvidence,
		EvaluationImplemented, EvaluationEvidenceRejected:
		return true
	default:
		return false
	}
}

type HistoryChangeType string

const (
	HistoryStatusChange     HistoryChangeType = "status_change"
	HistoryEvidenceUpdate   HistoryChangeType = "evidence_update"
	HistoryNotesUpdate      HistoryChangeType = "notes_update"
	HistoryValidationResult HistoryChangeType = "validation_result"
)

type CampaignStatus string

const (
	CampaignDraft  CampaignStatus = "draft"
	CampaignActive CampaignStatus = "active"
	CampaignClosed CampaignStatus = "closed"
)

func IsValidCampaignStatus(status CampaignStatus) bool {
	switch status {
	case CampaignDraft, CampaignActive, CampaignClosed:
		return true
	default:
		return false
	}
}

type EvidenceType string

const (
	EvidenceURL      EvidenceType = "url"
	EvidenceDocument EvidenceType = "document"
	EvidenceFreeText EvidenceType = "free_text"
)

func IsValidEvidenceType(evidenceType EvidenceType) bool {
	switch evidenceType {
	case EvidenceURL, EvidenceDocument, EvidenceFreeText:
		return true
	default:
		return false
	}
}
