package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/service"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TimeEntriesHandler manages tracked time.
type TimeEntriesHandler struct {
	service *service.TimeEntryService
}

// NewTimeEntriesHandler constructs handler.
func NewTimeEntriesHandler(timeEntryService *service.TimeEntryService) *TimeEntriesHandler {
	return &TimeEntriesHandler{service: timeEntryService}
}

// Create POST /time-entries.
func (h *TimeEntriesHandler) Create(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	input, err := parseTimeEntryRequest(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Create(c.Context(), principal.TenantID(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, timeEntryResponse(entry))
}

// Update PUT /time-entries/:id.
func (h *TimeEntriesHandler) Update(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	input, err := parseTimeEntryRequest(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Update(c.Context(), principal.TenantID(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, timeEntryResponse(entry))
}

func parseTimeEntryRequest(c *fiber.Ctx) (service.TimeEntryInput, error) {
	var req dto.TimeEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TimeEntryInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.TimeEntryInput{
		ProjectID:   req.ProjectID,
		TicketID:    req.TicketID,
		Description: req.Description,
		Minutes:     req.Minutes,
		Billable:    req.Billable,
		StartedAt:   req.StartedAt,
	}, nil
}
