package handlers

import (
	"net/http"

	"maturity-service/internal/models"
	"maturity-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	rollupService   *services.RollupService
}

func NewCampaignHandler(campaignService *services.CampaignService, rollupService *services.RollupService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		rollupService:   rollupService,
	}
}

func (h *CampaignHandler) Register(app *fiber.App) {
	group := app.Group("maturity/api/v1/campaigns")

	group.Post("/", h.CreateCampaign)                  // POST /campaigns
	group.Get("/", h.ListCampaigns)                    // GET  /campaigns
	group.Get("/:id", h.GetCampaign)                   // GET  /campaigns/:id
	group.Post("/:id/status", h.SetCampaignStatus)     // POST /campaigns/:id/status
	group.Get("/:id/rollup", h.GetRollup)              // GET  /campaigns/:id/rollup
	group.Get("/:id/distribution", h.GetDistribution)  // GET  /campaigns/:id/distribution
}

func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var request models.CreateCampaignRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	campaign, err := h.campaignService.CreateCampaign(c.Context(), &request)
	if err != nil {
		return respondError(c, err, "CREATE_FAILED", "Failed to create campaign")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(campaign))
}

func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	campaigns, err := h.campaignService.ListCampaigns(c.Context())
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to list campaigns")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"campaigns": campaigns,
		"count":     len(campaigns),
	}))
}

func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid campaign ID format"))
	}

	campaign, err := h.campaignService.GetCampaign(c.Context(), id)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to retrieve campaign")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(campaign))
}

func (h *CampaignHandler) SetCampaignStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid campaign ID format"))
	}

	var request struct {
		Status models.CampaignStatus `json:"status"`
	}
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	campaign, err := h.campaignService.SetCampaignStatus(c.Context(), id, request.Status)
	if err != nil {
		return respondError(c, err, "STATUS_CHANGE_FAILED", "Failed to change campaign status")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(campaign))
}

// GetRollup recomputes the campaign rollup from the current evaluation set.
func (h *CampaignHandler) GetRollup(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid campaign ID format"))
	}

	result, err := h.rollupService.Rollup(c.Context(), id)
	if err != nil {
		return respondError(c, err, "ROLLUP_FAILED", "Failed to compute rollup")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(result))
}

// GetDistribution returns the per-level service histogram for the campaign.
func (h *CampaignHandler) GetDistribution(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid campaign ID format"))
	}

	distribution, err := h.rollupService.Distribution(c.Context(), id)
	if err != nil {
		return respondError(c, err, "DISTRIBUTION_FAILED", "Failed to compute distribution")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(distribution))
}
