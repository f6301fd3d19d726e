package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

func newPortalFixture(now time.Time) (*PortalService, *ticketFixture) {
	fix := newTicketFixture(now)
	portal := NewPortalService(fix.service, fix.tickets, fix.comments, zap.NewNop())
	return portal, fix
}

func portalContact(capabilities domain.PortalCapabilities) *domain.CustomerContact {
	return &domain.CustomerContact{
		ID:           "contact-1",
		TenantID:     "tenant-1",
		CustomerID:   "customer-1",
		Name:         "Pat",
		IsActive:     true,
		Capabilities: capabilities,
	}
}

func TestPortalService_CreateTicket_RequiresCapability(t *testing.T) {
	portal, _ := newPortalFixture(time.Now())
	contact := portalContact(domain.PortalCapabilities{})

	_, err := portal.CreateTicket(context.Background(), contact, PortalTicketInput{Title: "Help"})

	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestPortalService_CreateTicket_ScopesToOwnCustomer(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	contact := portalContact(domain.PortalCapabilities{CanCreateTickets: true})
	fix.tickets.CreateFunc = func(ctx context.Context, ticket *domain.Ticket) error {
		ticket.ID = "ticket-1"
		ticket.TicketNumber = domain.FormatTicketNumber(1)
		return nil
	}

	ticket, err := portal.CreateTicket(context.Background(), contact, PortalTicketInput{Title: "Help"})

	require.NoError(t, err)
	assert.Equal(t, "customer-1", ticket.CustomerID)
	require.NotNil(t, ticket.CreatedByContactID)
	assert.Equal(t, "contact-1", *ticket.CreatedByContactID)
}

func TestPortalService_ListTickets_RestrictedToOwnUnlessViewAll(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	var captured repository.TicketFilter
	fix.tickets.ListWithFilterFunc = func(ctx context.Context, tenantID string, filter repository.TicketFilter) ([]domain.Ticket, error) {
		captured = filter
		return nil, nil
	}

	contact := portalContact(domain.PortalCapabilities{})
	_, err := portal.ListTickets(context.Background(), contact, PortalListFilter{})
	require.NoError(t, err)
	require.NotNil(t, captured.CreatedByContactID)
	assert.Equal(t, "contact-1", *captured.CreatedByContactID)
	assert.True(t, captured.ExcludeArchived)

	viewAll := portalContact(domain.PortalCapabilities{CanViewAllTickets: true})
	_, err = portal.ListTickets(context.Background(), viewAll, PortalListFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Nil(t, captured.CreatedByContactID)
	assert.False(t, captured.ExcludeArchived)
}

func TestPortalService_GetTicket_FiltersInternalComments(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	contactID := "contact-1"
	fix.tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		ticket := existingTicket(domain.TicketStatusOpen)
		ticket.CreatedByContactID = &contactID
		return ticket, nil
	}
	var requestedInternal bool
	fix.comments.ListByTicketFunc = func(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
		requestedInternal = includeInternal
		return []domain.TicketComment{{ID: "comment-1", Content: "visible"}}, nil
	}

	detail, err := portal.GetTicket(context.Background(), portalContact(domain.PortalCapabilities{}), "ticket-1")

	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.False(t, requestedInternal)
}

func TestPortalService_GetTicket_ForeignCustomerLooksMissing(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	fix.tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		ticket := existingTicket(domain.TicketStatusOpen)
		ticket.CustomerID = "customer-2"
		return ticket, nil
	}

	_, err := portal.GetTicket(context.Background(), portalContact(domain.PortalCapabilities{CanViewAllTickets: true}), "ticket-1")

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestPortalService_GetTicket_OtherContactsTicketHiddenWithoutViewAll(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	otherContact := "contact-2"
	fix.tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		ticket := existingTicket(domain.TicketStatusOpen)
		ticket.CreatedByContactID = &otherContact
		return ticket, nil
	}

	_, err := portal.GetTicket(context.Background(), portalContact(domain.PortalCapabilities{}), "ticket-1")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)

	_, err = portal.GetTicket(context.Background(), portalContact(domain.PortalCapabilities{CanViewAllTickets: true}), "ticket-1")
	require.NoError(t, err)
}

func TestPortalService_GetTicket_TenantMismatchFromRepo(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	fix.tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		return nil, pgx.ErrNoRows
	}

	_, err := portal.GetTicket(context.Background(), portalContact(domain.PortalCapabilities{}), "ticket-1")

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestPortalService_AddComment_AlwaysCustomerVisible(t *testing.T) {
	portal, fix := newPortalFixture(time.Now())
	contactID := "contact-1"
	fix.tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		ticket := existingTicket(domain.TicketStatusOpen)
		ticket.CreatedByContactID = &contactID
		return ticket, nil
	}

	comment, err := portal.AddComment(context.Background(), portalContact(domain.PortalCapabilities{}), "ticket-1", "any news?")

	require.NoError(t, err)
	assert.False(t, comment.IsInternal)
	require.NotNil(t, comment.AuthorContactID)
	assert.Equal(t, contactID, *comment.AuthorContactID)
}
