package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/service"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// SlaHandler manages SLA policy endpoints.
type SlaHandler struct {
	service *service.SlaService
}

// NewSlaHandler constructs handler.
func NewSlaHandler(slaService *service.SlaService) *SlaHandler {
	return &SlaHandler{service: slaService}
}

// ListPolicies GET /tickets/sla/policies.
func (h *SlaHandler) ListPolicies(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	policies, err := h.service.ListPolicies(c.Context(), principal.TenantID())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, slaPolicyResponses(policies))
}

// CreatePolicy POST /tickets/sla/policies.
func (h *SlaHandler) CreatePolicy(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	input, err := parsePolicyRequest(c)
	if err != nil {
		return err
	}
	policy, err := h.service.CreatePolicy(c.Context(), principal.TenantID(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, slaPolicyResponse(policy))
}

// UpdatePolicy PUT /tickets/sla/policies/:id.
func (h *SlaHandler) UpdatePolicy(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	input, err := parsePolicyRequest(c)
	if err != nil {
		return err
	}
	policy, err := h.service.UpdatePolicy(c.Context(), principal.TenantID(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, slaPolicyResponse(policy))
}

// DeletePolicy DELETE /tickets/sla/policies/:id.
func (h *SlaHandler) DeletePolicy(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePolicy(c.Context(), principal.TenantID(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}

// ApplyToTicket POST /tickets/sla/apply/:ticketId. Recomputes the ticket's
// SLA stamps from the currently matching policy.
func (h *SlaHandler) ApplyToTicket(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.ApplyToTicket(c.Context(), principal.TenantID(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketResponse(ticket))
}

func parsePolicyRequest(c *fiber.Ctx) (service.SlaPolicyInput, error) {
	var req dto.SlaPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return service.SlaPolicyInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.SlaPolicyInput{
		Name:                 req.Name,
		Priority:             req.Priority,
		FirstResponseMinutes: req.FirstResponseMinutes,
		ResolutionMinutes:    req.ResolutionMinutes,
		BusinessHoursOnly:    req.BusinessHoursOnly,
		IsActive:             true,
		IsDefault:            req.IsDefault,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	return input, nil
}
