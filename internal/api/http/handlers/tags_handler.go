package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/service"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TagsHandler manages the tenant tag catalog.
type TagsHandler struct {
	service *service.TicketService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(ticketService *service.TicketService) *TagsHandler {
	return &TagsHandler{service: ticketService}
}

// List GET /tickets/tags.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	tags, err := h.service.ListTags(c.Context(), principal.TenantID())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tagResponses(tags))
}

// Create POST /tickets/tags.
func (h *TagsHandler) Create(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tag, err := h.service.CreateTag(c.Context(), principal.TenantID(), req.Name, req.Color)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, tagResponse(tag))
}

// Delete DELETE /tickets/tags/:id.
func (h *TagsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTag(c.Context(), principal.TenantID(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}
