package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// PortalService is the visibility gate for customer contacts. Every read is
// re-scoped to the contact's own customer and tenant, internal comments are
// filtered at this boundary, and capability flags gate each operation. A
// ticket outside the contact's scope is indistinguishable from a missing
// one.
type PortalService struct {
	tickets    *TicketService
	ticketRepo repository.TicketRepository
	comments   repository.CommentRepository
	logger     *zap.Logger
}

// NewPortalService constructs the gate.
func NewPortalService(tickets *TicketService, ticketRepo repository.TicketRepository, comments repository.CommentRepository, logger *zap.Logger) *PortalService {
	return &PortalService{
		tickets:    tickets,
		ticketRepo: ticketRepo,
		comments:   comments,
		logger:     logger,
	}
}

// PortalTicketInput describes a contact-created ticket.
type PortalTicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// PortalListFilter describes portal listing parameters. Archived tickets
// are excluded unless explicitly requested.
type PortalListFilter struct {
	IncludeArchived bool
	Limit           int
	Offset          int
}

// PortalTicketDetail is a customer-safe ticket view: the thread never
// contains internal comments.
type PortalTicketDetail struct {
	Ticket   *domain.Ticket
	Comments []domain.TicketComment
}

// RequireCapability checks a portal permission flag. Missing flags are a
// permission error, not a validation error.
func (s *PortalService) RequireCapability(contact *domain.CustomerContact, capability domain.PortalCapability) error {
	if contact == nil || !contact.Capabilities.Allows(capability) {
		return apperrors.NewForbidden("missing portal permission")
	}
	return nil
}

// CreateTicket opens a ticket on behalf of a contact for their own
// customer.
func (s *PortalService) CreateTicket(ctx context.Context, contact *domain.CustomerContact, input PortalTicketInput) (*domain.Ticket, error) {
	if err := s.RequireCapability(contact, domain.CapabilityCreateTickets); err != nil {
		return nil, err
	}
	contactID := contact.ID
	return s.tickets.Create(ctx, contact.TenantID, domain.ContactActor(contact.ID), TicketCreateInput{
		CustomerID:         contact.CustomerID,
		Title:              input.Title,
		Description:        input.Description,
		Priority:           input.Priority,
		CreatedByContactID: &contactID,
	})
}

// ListTickets returns tickets visible to the contact. Without the
// view-all-tickets flag the list is restricted to tickets the contact
// opened themselves.
func (s *PortalService) ListTickets(ctx context.Context, contact *domain.CustomerContact, filter PortalListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CustomerID:      &contact.CustomerID,
		ExcludeArchived: !filter.IncludeArchived,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	}
	if !contact.Capabilities.CanViewAllTickets {
		contactID := contact.ID
		repoFilter.CreatedByContactID = &contactID
	}
	return s.ticketRepo.ListWithFilter(ctx, contact.TenantID, repoFilter)
}

// GetTicket fetches one ticket with its customer-visible thread.
func (s *PortalService) GetTicket(ctx context.Context, contact *domain.CustomerContact, ticketID string) (*PortalTicketDetail, error) {
	ticket, err := s.scopedTicket(ctx, contact, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID, false)
	if err != nil {
		return nil, err
	}
	return &PortalTicketDetail{Ticket: ticket, Comments: comments}, nil
}

// AddComment appends a contact-authored, always customer-visible reply.
func (s *PortalService) AddComment(ctx context.Context, contact *domain.CustomerContact, ticketID, content string) (*domain.TicketComment, error) {
	ticket, err := s.scopedTicket(ctx, contact, ticketID)
	if err != nil {
		return nil, err
	}
	return s.tickets.AddComment(ctx, contact.TenantID, ticket.ID, domain.ContactActor(contact.ID), content, false)
}

// scopedTicket loads a ticket and re-checks both the tenant and customer
// scope. Both must agree before anything is returned.
func (s *PortalService) scopedTicket(ctx context.Context, contact *domain.CustomerContact, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, contact.TenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != contact.CustomerID {
		return nil, apperrors.NewNotFound("ticket")
	}
	if !contact.Capabilities.CanViewAllTickets &&
		(ticket.CreatedByContactID == nil || *ticket.CreatedByContactID != contact.ID) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}
