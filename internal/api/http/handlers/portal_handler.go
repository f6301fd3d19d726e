package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/auth"
	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/service"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// PortalHandler exposes the customer-facing ticket surface. Every route
// runs behind contact authentication, and all reads pass through the
// portal service's visibility gate.
type PortalHandler struct {
	service *service.PortalService
}

// NewPortalHandler constructs handler.
func NewPortalHandler(portalService *service.PortalService) *PortalHandler {
	return &PortalHandler{service: portalService}
}

// ListTickets GET /customer-portal/tickets.
func (h *PortalHandler) ListTickets(c *fiber.Ctx) error {
	contact, err := requireContact(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.Context(), contact, service.PortalListFilter{
		IncludeArchived: c.QueryBool("includeArchived"),
		Limit:           parseInt(c.Query("limit"), 20),
		Offset:          parseIntAllowZero(c.Query("offset"), 0),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketResponses(tickets))
}

// GetTicket GET /customer-portal/tickets/:id.
func (h *PortalHandler) GetTicket(c *fiber.Ctx) error {
	contact, err := requireContact(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetTicket(c.Context(), contact, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.PortalTicketDetailResponse{
		TicketResponse: ticketResponse(detail.Ticket),
		Comments:       commentResponses(detail.Comments),
	})
}

// CreateTicket POST /customer-portal/tickets.
func (h *PortalHandler) CreateTicket(c *fiber.Ctx) error {
	contact, err := requireContact(c)
	if err != nil {
		return err
	}
	var req dto.PortalCreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.Context(), contact, service.PortalTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, ticketResponse(ticket))
}

// AddComment POST /customer-portal/tickets/:id/comments.
func (h *PortalHandler) AddComment(c *fiber.Ctx) error {
	contact, err := requireContact(c)
	if err != nil {
		return err
	}
	var req dto.PortalCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.Context(), contact, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, commentResponse(comment))
}

func requireContact(c *fiber.Ctx) (*domain.CustomerContact, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Contact == nil {
		return nil, apperrors.NewUnauthorized("portal contact required")
	}
	return principal.Contact, nil
}
