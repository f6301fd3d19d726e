package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/auth"
	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/service"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages the tenant-staff ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	filter := parseTicketQuery(c)
	tickets, err := h.service.List(c.Context(), principal.TenantID(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketResponses(tickets))
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), principal.TenantID(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketDetailResponse(detail))
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.Context(), principal.TenantID(), domain.UserActor(principal.User.ID), service.TicketCreateInput{
		CustomerID:  req.CustomerID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, ticketResponse(ticket))
}

// Update PUT /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := service.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.AssignedToUserID.Set {
		patch.AssigneeSet = true
		patch.AssignedToUserID = req.AssignedToUserID.Value
	}
	ticket, err := h.service.Update(c.Context(), principal.TenantID(), c.Params("id"), domain.UserActor(principal.User.ID), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketResponse(ticket))
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal.TenantID(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.Context(), principal.TenantID(), c.Params("id"),
		domain.UserActor(principal.User.ID), req.Content, req.IsInternal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, commentResponse(comment))
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	attachment, err := h.service.AddAttachment(c.Context(), principal.TenantID(), c.Params("id"),
		domain.UserActor(principal.User.ID), service.AttachmentInput{
			CommentID: req.CommentID,
			FileName:  req.FileName,
			MimeType:  req.MimeType,
			SizeBytes: req.SizeBytes,
		})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{
		"id":         attachment.ID,
		"storageKey": attachment.StorageKey,
		"fileName":   attachment.FileName,
	})
}

// Activities GET /tickets/:id/activities.
func (h *TicketsHandler) Activities(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	limit := parseInt(c.Query("limit"), 50)
	offset := parseIntAllowZero(c.Query("offset"), 0)
	activities, err := h.service.Activities(c.Context(), principal.TenantID(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, activityResponses(activities))
}

// AssignTag POST /tickets/:id/tags/:tagId.
func (h *TicketsHandler) AssignTag(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.AssignTag(c.Context(), principal.TenantID(), c.Params("id"), c.Params("tagId"),
		domain.UserActor(principal.User.ID)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"assigned": true})
}

// RemoveTag DELETE /tickets/:id/tags/:tagId.
func (h *TicketsHandler) RemoveTag(c *fiber.Ctx) error {
	principal, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveTag(c.Context(), principal.TenantID(), c.Params("id"), c.Params("tagId"),
		domain.UserActor(principal.User.ID)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"removed": true})
}

func requireUser(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("tenant user required")
	}
	return principal, nil
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if customerID := c.Query("customerId"); customerID != "" {
		filter.CustomerID = &customerID
	}
	filter.IncludeArchived = c.QueryBool("includeArchived")
	filter.Limit = parseInt(c.Query("limit"), 20)
	filter.Offset = parseIntAllowZero(c.Query("offset"), 0)
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseIntAllowZero(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
