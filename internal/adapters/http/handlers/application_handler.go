package handlers

import (
	"errors"

	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/models"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/services"
	"github.com/abossard/can-i-haz-houze-sub002/internal/pkg/pagination"
	"github.com/abossard/can-i-haz-houze-sub002/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles mortgage application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		appService: appService,
	}
}

// CreateApplicationRequest represents create application request
type CreateApplicationRequest struct {
	ApplicantID string `json:"applicant_id"`
}

// Create creates a new mortgage application
// @Summary Create application
// @Description Create a new mortgage application for an applicant (one per applicant)
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body CreateApplicationRequest true "Applicant data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ApplicantID == "" {
		return response.BadRequest(c, "Applicant ID is required")
	}

	app, err := h.appService.Create(c.Context(), req.ApplicantID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationExists):
			return response.Conflict(c, "Application already exists for this applicant")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Applicant ID is required")
		default:
			return response.InternalServerError(c, "Failed to create application")
		}
	}

	return response.Created(c, "Application created successfully", fiber.Map{
		"application": models.ToResponse(app),
	})
}

// MergeFieldsRequest represents a partial field update
type MergeFieldsRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

// MergeFields merges field updates into an application and re-evaluates it
// @Summary Merge application fields
// @Description Overlay field updates onto the application and recompute its status
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param body body MergeFieldsRequest true "Field updates"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/fields [patch]
func (h *ApplicationHandler) MergeFields(c *fiber.Ctx) error {
	id := c.Params("id")

	var req MergeFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if len(req.Fields) == 0 {
		return response.BadRequest(c, "At least one field is required")
	}

	app, err := h.appService.MergeFields(c.Context(), id, req.Fields)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrConcurrencyConflict):
			return response.Conflict(c, "Application was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to update application")
		}
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": models.ToResponse(app),
	})
}

// GetByID gets an application by ID
// @Summary Get application by ID
// @Description Get a specific mortgage application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	app, err := h.appService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": models.ToResponse(app),
	})
}

// GetByApplicant gets an application by applicant ID
// @Summary Get application by applicant
// @Description Get the mortgage application belonging to an applicant
// @Tags Applications
// @Accept json
// @Produce json
// @Param applicantId path string true "Applicant ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/applicant/{applicantId} [get]
func (h *ApplicationHandler) GetByApplicant(c *fiber.Ctx) error {
	app, err := h.appService.GetByApplicantID(c.Context(), c.Params("applicantId"))
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": models.ToResponse(app),
	})
}

// List lists applications
// @Summary List applications
// @Description List all mortgage applications
// @Tags Applications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.appService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	items := make([]*models.ApplicationResponse, 0, len(result.Applications))
	for _, app := range result.Applications {
		items = append(items, models.ToResponse(app))
	}

	return response.Success(c, "Applications retrieved successfully", fiber.Map{
		"applications": items,
		"total":        result.Total,
		"page":         result.Page,
		"limit":        result.Limit,
		"total_pages":  result.TotalPages,
	})
}

// Delete removes an application
// @Summary Delete application
// @Description Permanently delete a mortgage application (administrative)
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	if err := h.appService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to delete application")
	}

	return response.Success(c, "Application deleted successfully", nil)
}
