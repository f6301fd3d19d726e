package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
)

// ActivityService records semantic state changes on tickets. Logging is
// best-effort: a failed insert is logged and swallowed so the primary
// mutation never fails or rolls back because its audit trail did.
type ActivityService struct {
	activities repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(activities repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activities: activities, logger: logger}
}

// Log appends an audit entry for a ticket.
func (s *ActivityService) Log(ctx context.Context, ticketID string, actor domain.Actor, action domain.ActivityAction, oldValue, newValue *string, metadata map[string]any) {
	if s == nil || s.activities == nil {
		return
	}
	entry := &domain.TicketActivity{
		TicketID:       ticketID,
		ActorUserID:    actor.UserID,
		ActorContactID: actor.ContactID,
		Action:         action,
		OldValue:       oldValue,
		NewValue:       newValue,
		Metadata:       metadata,
	}
	if err := s.activities.Create(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed",
			zap.String("ticket_id", ticketID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// ListByTicket returns the audit timeline, newest first.
func (s *ActivityService) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketActivity, error) {
	return s.activities.ListByTicket(ctx, ticketID, limit, offset)
}
