package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maturity-service/internal/database/minio"
	"maturity-service/internal/models"
)

const (
	probeTimeout      = 5 * time.Second
	minContentLength  = 100
	minNotesLength    = 20
	maxProbeBodyBytes = 1 << 20
)

// notesDenylist contains placeholder phrases that disqualify notes outright.
var notesDenylist = []string{"todo", "tbd", "fix this", "update later", "placeholder"}

// EvidenceValidator inspects an evaluation's evidence and notes and produces
// a ValidationReport. It always terminates with a report: network failures
// during URL probing become failed checks, never errors.
type EvidenceValidator struct {
	httpClient *http.Client
	objects    ObjectFetcher
}

// NewEvidenceValidator creates a validator. objects may be nil when object
// storage is unavailable; minio:// evidence then fails its content check.
func NewEvidenceValidator(objects ObjectFetcher) *EvidenceValidator {
	return &EvidenceValidator{
		httpClient: &http.Client{Timeout: probeTimeout},
		objects:    objects,
	}
}

// Validate runs every applicable check against the evaluation.
func (v *EvidenceValidator) Validate(ctx context.Context, evaluation *models.Evaluation) models.ValidationReport {
	report := models.ValidationReport{}

	evidenceLocation := evaluation.EvidenceLocationValue()
	if evidenceLocation == "" {
		report.Valid = false
		report.Message = models.ReportNoEvidence
		report.Checks = []models.ValidationCheck{}
		return report
	}

	switch {
	case minio.IsObjectLocation(evidenceLocation):
		v.checkObjectContent(ctx, evidenceLocation, &report)
	case isWellFormedURL(evidenceLocation):
		reachable := v.checkURLReachable(ctx, evidenceLocation, &report)
		if reachable {
			v.checkURLContent(ctx, evidenceLocation, &report)
		}
	default:
		// Free-text evidence: no URL checks run and none are recorded.
	}

	v.checkNotesQuality(evaluation.Notes, &report)

	report.Finalize()
	return report
}

func isWellFormedURL(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// checkURLReachable probes the URL and reports whether the probe succeeded.
func (v *EvidenceValidator) checkURLReachable(ctx context.Context, location string, report *models.ValidationReport) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, location, nil)
	if err != nil {
		report.AddCheck(models.CheckURLValidation, false, fmt.Sprintf("invalid evidence URL: %v", err))
		return false
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		report.AddCheck(models.CheckURLValidation, false, fmt.Sprintf("evidence URL unreachable: %v", err))
		return false
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		report.AddCheck(models.CheckURLValidation, false, fmt.Sprintf("evidence URL returned status %d", resp.StatusCode))
		return false
	}

	report.AddCheck(models.CheckURLValidation, true, "evidence URL is reachable")
	return true
}

// checkURLContent fetches the resource and requires a minimum amount of content.
func (v *EvidenceValidator) checkURLContent(ctx context.Context, location string, report *models.ValidationReport) {
	fetchCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, location, nil)
	if err != nil {
		report.AddCheck(models.CheckURLContent, false, fmt.Sprintf("invalid evidence URL: %v", err))
		return
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		report.AddCheck(models.CheckURLContent, false, fmt.Sprintf("failed to fetch evidence content: %v", err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBodyBytes))
	if err != nil {
		report.AddCheck(models.CheckURLContent, false, fmt.Sprintf("failed to read evidence content: %v", err))
		return
	}

	if len(body) < minContentLength {
		report.AddCheck(models.CheckURLContent, false,
			fmt.Sprintf("evidence content too short to be meaningful (%d characters)", len(body)))
		return
	}

	report.AddCheck(models.CheckURLContent, true, "evidence content retrieved")
}

// checkObjectContent fetches minio:// evidence from object storage.
func (v *EvidenceValidator) checkObjectContent(ctx context.Context, location string, report *models.ValidationReport) {
	if v.objects == nil {
		report.AddCheck(models.CheckObjectContent, false, "object storage is not configured")
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	data, err := v.objects.FetchObjectLocation(fetchCtx, location)
	if err != nil {
		report.AddCheck(models.CheckObjectContent, false, fmt.Sprintf("failed to fetch evidence object: %v", err))
		return
	}

	if len(data) < minContentLength {
		report.AddCheck(models.CheckObjectContent, false,
			fmt.Sprintf("evidence object too short to be meaningful (%d characters)", len(data)))
		return
	}

	report.AddCheck(models.CheckObjectContent, true, "evidence object retrieved")
}

// checkNotesQuality always runs: notes must exist, carry some substance and
// avoid placeholder phrases.
func (v *EvidenceValidator) checkNotesQuality(notes *string, report *models.ValidationReport) {
	if notes == nil || *notes == "" {
		report.AddCheck(models.CheckNotesQuality, false, "no notes provided")
		return
	}

	trimmed := strings.TrimSpace(*notes)
	if len(trimmed) < minNotesLength {
		report.AddCheck(models.CheckNotesQuality, false,
			fmt.Sprintf("notes too short to be meaningful (%d characters)", len(trimmed)))
		return
	}

	lowered := strings.ToLower(trimmed)
	for _, phrase := range notesDenylist {
		if strings.Contains(lowered, phrase) {
			report.AddCheck(models.CheckNotesQuality, false,
				fmt.Sprintf("notes contain placeholder phrase %q", phrase))
			return
		}
	}

	report.AddCheck(models.CheckNotesQuality, true, "notes look substantive")
}
