package handlers

import (
	"net/http"

	"maturity-service/internal/models"
	"maturity-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) Register(app *fiber.App) {
	group := app.Group("maturity/api/v1/catalog")

	group.Post("/journeys", h.CreateJourney)                     // POST /catalog/journeys
	group.Get("/journeys", h.ListJourneys)                       // GET  /catalog/journeys
	group.Get("/journeys/:id/activities", h.ListActivities)      // GET  /catalog/journeys/:id/activities
	group.Post("/activities", h.CreateActivity)                  // POST /catalog/activities
	group.Get("/activities/:id/services", h.ListServices)        // GET  /catalog/activities/:id/services
	group.Post("/services", h.CreateService)                     // POST /catalog/services
	group.Post("/measurements", h.CreateMeasurement)             // POST /catalog/measurements
	group.Get("/measurements", h.ListMeasurements)               // GET  /catalog/measurements
}

func (h *CatalogHandler) CreateJourney(c fiber.Ctx) error {
	var request models.CreateJourneyRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	journey, err := h.catalogService.CreateJourney(c.Context(), &request)
	if err != nil {
		return respondError(c, err, "CREATE_FAILED", "Failed to create journey")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(journey))
}

func (h *CatalogHandler) ListJourneys(c fiber.Ctx) error {
	journeys, err := h.catalogService.ListJourneys(c.Context())
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to list journeys")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"journeys": journeys,
		"count":    len(journeys),
	}))
}

func (h *CatalogHandler) ListActivities(c fiber.Ctx) error {
	journeyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid journey ID format"))
	}

	activities, err := h.catalogService.ActivitiesOf(c.Context(), journeyID)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to list activities")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"activities": activities,
		"count":      len(activities),
	}))
}

func (h *CatalogHandler) CreateActivity(c fiber.Ctx) error {
	var request models.CreateActivityRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	activity, err := h.catalogService.CreateActivity(c.Context(), &request)
	if err != nil {
		return respondError(c, err, "CREATE_FAILED", "Failed to create activity")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(activity))
}

func (h *CatalogHandler) ListServices(c fiber.Ctx) error {
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_UUID", "Invalid activity ID format"))
	}

	servicesList, err := h.catalogService.ServicesOf(c.Context(), activityID)
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to list services")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"services": servicesList,
		"count":    len(servicesList),
	}))
}

func (h *CatalogHandler) CreateService(c fiber.Ctx) error {
	var request models.CreateServiceRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	service, err := h.catalogService.CreateService(c.Context(), &request)
	if err != nil {
		return respondError(c, err, "CREATE_FAILED", "Failed to create service")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(service))
}

func (h *CatalogHandler) CreateMeasurement(c fiber.Ctx) error {
	var request models.CreateMeasurementRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "request body could not be parsed"))
	}

	measurement, err := h.catalogService.CreateMeasurement(c.Context(), &request)
	if err != nil {
		return respondError(c, err, "CREATE_FAILED", "Failed to create measurement")
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(measurement))
}

func (h *CatalogHandler) ListMeasurements(c fiber.Ctx) error {
	measurements, err := h.catalogService.ListMeasurements(c.Context())
	if err != nil {
		return respondError(c, err, "RETRIEVAL_FAILED", "Failed to list measurements")
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"measurements": measurements,
		"count":        len(measurements),
	}))
}
