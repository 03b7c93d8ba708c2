package models

import (
	"encoding/json"
	"fmt"
)

// Validation check names emitted by the evidence validator.
const (
	CheckURLValidation = "url_validation"
	CheckURLContent    = "url_content"
	CheckObjectContent = "object_content"
	CheckNotesQuality  = "notes_quality"
)

// Fixed summary messages. The message is never a concatenation of the
// individual check messages.
const (
	ReportAllPassed  = "All checks passed"
	ReportSomeFailed = "Some checks failed"
	ReportNoEvidence = "No evidence location provided"
)

// ValidationCheck is one named check inside a validation report.
type ValidationCheck struct {
	Name    string `json:"name"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ValidationReport is the structured output of the evidence validator. Its
// JSON shape is part of the wire contract: it is persisted on the evaluation
// and inside history rows, and re-displayed from there later.
type ValidationReport struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message"`
	Checks  []ValidationCheck `json:"checks"`
}

// AddCheck appends a check result, preserving insertion order.
func (r *ValidationReport) AddCheck(name string, valid bool, message string) {
	r.Checks = append(r.Checks, ValidationCheck{Name: name, Valid: valid, Message: message})
}

// Finalize computes the overall verdict as the AND of every executed check
// and sets the fixed summary message.
func (r *ValidationReport) Finalize() {
	r.Valid = true
	for _, check := range r.Checks {
		if !check.Valid {
			r.Valid = false
			break
		}
	}
	if r.Valid {
		r.Message = ReportAllPassed
	} else {
		r.Message = ReportSomeFailed
	}
}

// Serialize renders the report in its canonical JSON wire shape.
func (r ValidationReport) Serialize() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to serialize validation report: %w", err)
	}
	return string(data), nil
}

// ParseValidationReport restores a report from its serialized form.
func ParseValidationReport(data string) (ValidationReport, error) {
	var report ValidationReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return ValidationReport{}, fmt.Errorf("failed to parse validation report: %w", err)
	}
	return report, nil
}
