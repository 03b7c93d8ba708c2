package handlers

import (
	"net/http"

	"maturity-service/internal/models"
	"maturity-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EvaluationHandler struct {
	evaluationService *services.EvaluationService
	attachmentService *services.AttachmentService
}

func NewEvaluationHandler(evaluationService *services.EvaluationService, attachmentService *services.AttachmentService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		attachmentService: attachmentService,
	}
}

func (h *EvaluationHandler) Register(app *fiber.App) {
	group := app.Group("maturity/api/v1/evaluations")

	group.Post("/evidence", h.SubmitEvidence)       // POST /evaluations/evidence
	group.Post("/status", h.SetStatus)              // POST /evaluations/status
	group.Post("/attachments", h.UploadAttachment)  // POST /evaluations/attachments
	group.Get("/lookup", h.LookupEvaluation)        // GET  /evaluations/lookup?service_id=&measurement_id=&campaign_id=
	group.Get("/:id", h.GetEvaluation)              // GET  /evaluations/:id
	group.Get("/:id/history", h.GetHistory)         // GET  /evaluations/:id/history
}

// SubmitEvidence records evidence for an evaluation, creating it on first touch.
func (h *EvaluationHandler) SubmitEvidence(c fiber.Ctx) error {
	var request models.SubmitEvidenceRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}
	if err := request.Validate(); err != nil {
		return respondError(c, err, "SUBMISSION_FAILED", "Failed to submit evidence")
	}

	evaluation, err := h.evaluationService.SubmitEvidence(
		c.Context(), request.Key(), request.EvidenceLocation, request.Notes, actorFrom(c))
	if err != nil {
		return respondError(c, err, "SUBMISSION_FAILED", "Failed to submit evidence")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(evaluation))
}

// SetStatus applies a manual status change, triggering validation when the
// requested status is validating_evidence.
func (h *EvaluationHandler) SetStatus(c fiber.Ctx) error {
	var request models.SetStatusRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}
	if err := request.Validate(); err != nil {
		return respondError(c, err, "STATUS_CHANGE_FAILED", "Failed to change status")
	}

	evaluation, err := h.evaluationService.SetStatus(
		c.Context(), request.Key(), request.Status, request.ChangeReason, actorFrom(c))
	if err != nil {
		return respondError(c, err, "STATUS_CHANGE_FAILED", "Failed to change status")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(evaluation))
}

// UploadAttachment stores an evidence document and returns its object location.
func (h *EvaluationHandler) UploadAttachment(c fiber.Ctx) error {
	fileName := c.Get("X-File-Name")
	contentType := c.Get("Content-Type")

	location, err := h.attachmentService.StoreEvidence(c.Context(), fileName, c.Body(), contentType)
	if err != nil {
		return respondError(c, err, "UPLOAD_FAILED", "Failed to store evidence attachment")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(map[string]any{
		"evidence_location": location,
	}))
}

// GetEvaluation retrieves one evaluation by id.
func (h *EvaluationHandler) GetEvaluation(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid evaluation ID format"))
	}

	evaluation, err := h.evaluationService.GetEvaluation(c.Context(), id)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to retrieve evaluation")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(evaluation))
}

// LookupEvaluation retrieves one evaluation by its identifying triple.
func (h *EvaluationHandler) LookupEvaluation(c fiber.Ctx) error {
	key, err := keyFromQuery(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_KEY", "service_id, measurement_id and campaign_id query parameters are required"))
	}

	evaluation, err := h.evaluationService.LookupEvaluation(c.Context(), key)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to retrieve evaluation")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(evaluation))
}

// GetHistory retrieves the audit trail for an evaluation, newest first.
func (h *EvaluationHandler) GetHistory(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid evaluation ID format"))
	}

	entries, err := h.evaluationService.History(c.Context(), id)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to retrieve history")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"evaluation_id": id,
		"entries":       entries,
		"count":         len(entries),
	}))
}

func keyFromQuery(c fiber.Ctx) (models.EvaluationKey, error) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		return models.EvaluationKey{}, err
	}
	measurementID, err := uuid.Parse(c.Query("measurement_id"))
	if err != nil {
		return models.EvaluationKey{}, err
	}
	campaignID, err := uuid.Parse(c.Query("campaign_id"))
	if err != nil {
		return models.EvaluationKey{}, err
	}
	return models.EvaluationKey{
		ServiceID:     serviceID,
		MeasurementID: measurementID,
		CampaignID:    campaignID,
	}, nil
}
