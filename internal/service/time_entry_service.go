package service

import (
	"context"
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TimeEntryService owns tracked time. When an entry references a ticket,
// either at creation or when an update links one, the ticket gets a
// time_logged audit entry with a human-readable duration.
type TimeEntryService struct {
	entries repository.TimeEntryRepository
	tickets *TicketService
}

// NewTimeEntryService constructs the service.
func NewTimeEntryService(entries repository.TimeEntryRepository, tickets *TicketService) *TimeEntryService {
	return &TimeEntryService{entries: entries, tickets: tickets}
}

// TimeEntryInput describes a time entry payload.
type TimeEntryInput struct {
	ProjectID   *string
	TicketID    *string
	Description string
	Minutes     int
	Billable    bool
	StartedAt   time.Time
}

// Create records a time entry for the acting user.
func (s *TimeEntryService) Create(ctx context.Context, tenantID, userID string, input TimeEntryInput) (*domain.TimeEntry, error) {
	if input.Minutes <= 0 {
		return nil, apperrors.NewValidationError("minutes must be positive", nil)
	}
	entry := &domain.TimeEntry{
		TenantID:    tenantID,
		UserID:      userID,
		ProjectID:   input.ProjectID,
		TicketID:    input.TicketID,
		Description: input.Description,
		Minutes:     input.Minutes,
		Billable:    input.Billable,
		StartedAt:   input.StartedAt,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	if entry.TicketID != nil {
		if err := s.tickets.RecordTimeLogged(ctx, tenantID, *entry.TicketID, domain.UserActor(userID), entry.Minutes); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Update replaces a time entry. Linking a ticket that was not referenced
// before logs time against it.
func (s *TimeEntryService) Update(ctx context.Context, tenantID, userID, entryID string, input TimeEntryInput) (*domain.TimeEntry, error) {
	if input.Minutes <= 0 {
		return nil, apperrors.NewValidationError("minutes must be positive", nil)
	}
	entry, err := s.entries.GetByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	previousTicket := entry.TicketID
	entry.ProjectID = input.ProjectID
	entry.TicketID = input.TicketID
	entry.Description = input.Description
	entry.Minutes = input.Minutes
	entry.Billable = input.Billable
	entry.StartedAt = input.StartedAt

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	newlyLinked := entry.TicketID != nil && (previousTicket == nil || *previousTicket != *entry.TicketID)
	if newlyLinked {
		if err := s.tickets.RecordTimeLogged(ctx, tenantID, *entry.TicketID, domain.UserActor(userID), entry.Minutes); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
