package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle: creation with sequential
// numbering and SLA stamping, field updates with per-field audit entries,
// status transitions with derived timestamps, comment threading, tag and
// attachment association. Notification intents are emitted fire-and-forget
// after the primary write commits.
type TicketService struct {
	tickets     repository.TicketRepository
	customers   repository.CustomerRepository
	comments    repository.CommentRepository
	tags        repository.TagRepository
	attachments repository.AttachmentRepository
	timeEntries repository.TimeEntryRepository
	sla         *SlaService
	activity    *ActivityService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CustomerRepo   repository.CustomerRepository
	CommentRepo    repository.CommentRepository
	TagRepo        repository.TagRepository
	AttachmentRepo repository.AttachmentRepository
	TimeEntryRepo  repository.TimeEntryRepository
	Sla            *SlaService
	Activity       *ActivityService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		customers:   deps.CustomerRepo,
		comments:    deps.CommentRepo,
		tags:        deps.TagRepo,
		attachments: deps.AttachmentRepo,
		timeEntries: deps.TimeEntryRepo,
		sla:         deps.Sla,
		activity:    deps.Activity,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID         string
	ProjectID          *string
	Title              string
	Description        string
	Priority           domain.TicketPriority
	CreatedByContactID *string
}

// TicketPatch carries partial update semantics: nil pointers leave the
// stored value untouched. AssigneeSet distinguishes "not in the patch" from
// an explicit null that unassigns.
type TicketPatch struct {
	Title            *string
	Description      *string
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	AssignedToUserID *string
	AssigneeSet      bool
}

// TicketListFilter describes listing parameters. Archived tickets are
// hidden unless IncludeArchived is set or an explicit status filter names
// them.
type TicketListFilter struct {
	Statuses        []domain.TicketStatus
	Priorities      []domain.TicketPriority
	CustomerID      *string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// TicketDetail aggregates a ticket with its thread and linked records.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Comments    []domain.TicketComment
	Tags        []domain.TicketTag
	TimeEntries []domain.TimeEntry
}

// AttachmentInput defines uploaded file metadata.
type AttachmentInput struct {
	CommentID *string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// Create makes a ticket for a tenant. The ticket number is allocated
// atomically with the insert; SLA stamping and the audit entry are
// best-effort side effects that never fail the creation.
func (s *TicketService) Create(ctx context.Context, tenantID string, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.CustomerID == "" {
		return nil, apperrors.NewValidationError("customer_id required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	customer, err := s.customers.GetByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		TenantID:           tenantID,
		CustomerID:         customer.ID,
		ProjectID:          input.ProjectID,
		Title:              title,
		Description:        strings.TrimSpace(input.Description),
		Status:             domain.TicketStatusOpen,
		Priority:           priority,
		CreatedByContactID: input.CreatedByContactID,
	}

	if resolution, err := s.sla.Resolve(ctx, tenantID, priority, s.now()); err != nil {
		s.logger.Warn("sla resolution failed", zap.String("tenant_id", tenantID), zap.Error(err))
	} else if resolution != nil {
		ticket.SlaPolicyID = &resolution.PolicyID
		ticket.FirstResponseDueAt = &resolution.FirstResponseDueAt
		ticket.ResolutionDueAt = &resolution.ResolutionDueAt
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ticket.ID, actor, domain.ActionCreated, nil, strPtr(ticket.TicketNumber), nil)

	if ticket.CreatedByContactID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TenantID: tenantID,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketCreatedPayload{
				TicketNumber: ticket.TicketNumber,
				CustomerID:   ticket.CustomerID,
				ContactID:    ticket.CreatedByContactID,
				Priority:     ticket.Priority,
				Title:        ticket.Title,
			},
		})
	}
	return ticket, nil
}

// Get fetches a ticket with its thread, tags and linked time entries.
// Internal comments are included; portal reads go through the portal gate
// instead.
func (s *TicketService) Get(ctx context.Context, tenantID, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID, true)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.timeEntries.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{Ticket: ticket, Comments: comments, Tags: tags, TimeEntries: entries}, nil
}

// List returns the tenant's tickets.
func (s *TicketService) List(ctx context.Context, tenantID string, filter TicketListFilter) ([]domain.Ticket, error) {
	for _, status := range filter.Statuses {
		if !domain.ValidStatus(status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
	}
	for _, priority := range filter.Priorities {
		if !domain.ValidPriority(priority) {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
		}
	}
	return s.tickets.ListWithFilter(ctx, tenantID, repository.TicketFilter{
		CustomerID:      filter.CustomerID,
		Statuses:        filter.Statuses,
		Priorities:      filter.Priorities,
		ExcludeArchived: !filter.IncludeArchived,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	})
}

// Update applies a partial patch. Each changed field produces exactly one
// audit entry; unchanged or absent fields produce none. Status transitions
// stamp or clear derived timestamps, and every update bumps updated_at.
func (s *TicketService) Update(ctx context.Context, tenantID, ticketID string, actor domain.Actor, patch TicketPatch) (*domain.Ticket, error) {
	if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
	}
	if patch.Priority != nil && !domain.ValidPriority(*patch.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *patch.Priority})
	}

	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}

	type pendingActivity struct {
		action   domain.ActivityAction
		oldValue *string
		newValue *string
	}
	var pending []pendingActivity
	var statusEvent *events.TicketStatusChangedPayload

	if patch.Title != nil && *patch.Title != ticket.Title {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		pending = append(pending, pendingActivity{domain.ActionTitleChanged, strPtr(ticket.Title), strPtr(title)})
		ticket.Title = title
	}
	if patch.Description != nil && *patch.Description != ticket.Description {
		pending = append(pending, pendingActivity{domain.ActionDescriptionChanged, strPtr(ticket.Description), patch.Description})
		ticket.Description = *patch.Description
	}
	if patch.Priority != nil && *patch.Priority != ticket.Priority {
		pending = append(pending, pendingActivity{domain.ActionPriorityChanged, strPtr(string(ticket.Priority)), strPtr(string(*patch.Priority))})
		ticket.Priority = *patch.Priority
	}
	if patch.AssigneeSet && !equalPtr(patch.AssignedToUserID, ticket.AssignedToUserID) {
		action := domain.ActionAssigned
		if patch.AssignedToUserID == nil {
			action = domain.ActionUnassigned
		}
		pending = append(pending, pendingActivity{action, ticket.AssignedToUserID, patch.AssignedToUserID})
		ticket.AssignedToUserID = patch.AssignedToUserID
	}
	if patch.Status != nil && *patch.Status != ticket.Status {
		oldStatus := ticket.Status
		newStatus := *patch.Status
		action := s.applyStatusChange(ticket, newStatus)
		pending = append(pending, pendingActivity{action, strPtr(string(oldStatus)), strPtr(string(newStatus))})
		// Archival is deliberately silent towards customers: no status
		// notification is dispatched for it.
		if newStatus != domain.TicketStatusArchived {
			statusEvent = &events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus}
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	for _, entry := range pending {
		s.activity.Log(ctx, ticket.ID, actor, entry.action, entry.oldValue, entry.newValue, nil)
	}
	if statusEvent != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TenantID: tenantID,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload:  *statusEvent,
		})
	}
	return ticket, nil
}

// applyStatusChange mutates the ticket for the target status and returns
// the action the transition is logged as. There is no enforced transition
// graph; any status is accepted from any prior status.
func (s *TicketService) applyStatusChange(ticket *domain.Ticket, newStatus domain.TicketStatus) domain.ActivityAction {
	wasTerminal := ticket.Status == domain.TicketStatusResolved || ticket.Status == domain.TicketStatusClosed
	now := s.now()
	ticket.Status = newStatus

	switch newStatus {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &now
		return domain.ActionResolved
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
		return domain.ActionClosed
	case domain.TicketStatusArchived:
		return domain.ActionArchived
	}

	if wasTerminal && domain.IsActiveStatus(newStatus) {
		ticket.ResolvedAt = nil
		ticket.ClosedAt = nil
		return domain.ActionReopened
	}
	return domain.ActionStatusChanged
}

// Delete hard-deletes a tenant's ticket with cascading comments,
// attachments, tag assignments and activities. Portal callers have no
// delete path.
func (s *TicketService) Delete(ctx context.Context, tenantID, ticketID string) error {
	return s.tickets.Delete(ctx, tenantID, ticketID)
}

// AddComment appends a thread entry. The first non-internal comment stamps
// the ticket's first-response timestamp, exactly once. Non-internal
// comments emit a reply intent towards the party that did not author them.
func (s *TicketService) AddComment(ctx context.Context, tenantID, ticketID string, actor domain.Actor, content string, isInternal bool) (*domain.TicketComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	if actor.UserID == nil && actor.ContactID == nil {
		return nil, apperrors.NewValidationError("comment author required", nil)
	}
	// Internal notes are a staff concept; contact-authored comments are
	// always customer-visible.
	if actor.UserID == nil {
		isInternal = false
	}

	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.TicketComment{
		TicketID:        ticket.ID,
		AuthorUserID:    actor.UserID,
		AuthorContactID: actor.ContactID,
		Content:         content,
		IsInternal:      isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	now := s.now()
	if !isInternal && ticket.FirstResponseAt == nil {
		if err := s.tickets.SetFirstResponseAt(ctx, ticket.ID, now); err != nil {
			s.logger.Warn("first response stamp failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		} else {
			ticket.FirstResponseAt = &now
		}
	} else if err := s.tickets.TouchUpdated(ctx, ticket.ID, now); err != nil {
		s.logger.Warn("ticket touch failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	action := domain.ActionCommentAdded
	if isInternal {
		action = domain.ActionInternalCommentAdded
	}
	s.activity.Log(ctx, ticket.ID, actor, action, nil, nil, nil)

	if !isInternal {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketReplyAdded,
			TenantID: tenantID,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketReplyAddedPayload{
				CommentID:       comment.ID,
				AuthorUserID:    comment.AuthorUserID,
				AuthorContactID: comment.AuthorContactID,
				BodyPreview:     stringPreview(comment.Content, 120),
			},
		})
	}
	return comment, nil
}

// AssignTag attaches a tag to a ticket. Assigning an already-present tag is
// a no-op and produces no audit entry.
func (s *TicketService) AssignTag(ctx context.Context, tenantID, ticketID, tagID string, actor domain.Actor) error {
	ticket, tag, err := s.ticketAndTag(ctx, tenantID, ticketID, tagID)
	if err != nil {
		return err
	}
	changed, err := s.tags.Assign(ctx, ticket.ID, tag.ID)
	if err != nil {
		return err
	}
	if changed {
		s.activity.Log(ctx, ticket.ID, actor, domain.ActionTagAdded, nil, strPtr(tag.Name), nil)
	}
	return nil
}

// RemoveTag detaches a tag; removing an absent tag is a no-op.
func (s *TicketService) RemoveTag(ctx context.Context, tenantID, ticketID, tagID string, actor domain.Actor) error {
	ticket, tag, err := s.ticketAndTag(ctx, tenantID, ticketID, tagID)
	if err != nil {
		return err
	}
	changed, err := s.tags.Unassign(ctx, ticket.ID, tag.ID)
	if err != nil {
		return err
	}
	if changed {
		s.activity.Log(ctx, ticket.ID, actor, domain.ActionTagRemoved, strPtr(tag.Name), nil, nil)
	}
	return nil
}

// CreateTag adds a tenant-scoped tag. Tag names are unique per tenant.
func (s *TicketService) CreateTag(ctx context.Context, tenantID, name, color string) (*domain.TicketTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	tag := &domain.TicketTag{
		TenantID: tenantID,
		Name:     name,
		Color:    color,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns the tenant's tags.
func (s *TicketService) ListTags(ctx context.Context, tenantID string) ([]domain.TicketTag, error) {
	return s.tags.ListByTenant(ctx, tenantID)
}

// DeleteTag removes a tag and all its assignments.
func (s *TicketService) DeleteTag(ctx context.Context, tenantID, tagID string) error {
	return s.tags.Delete(ctx, tenantID, tagID)
}

func (s *TicketService) ticketAndTag(ctx context.Context, tenantID, ticketID, tagID string) (*domain.Ticket, *domain.TicketTag, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, nil, err
	}
	tag, err := s.tags.GetByID(ctx, tenantID, tagID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, tag, nil
}

// AddAttachment records uploaded file metadata against a ticket. The
// storage key is random, so concurrent uploads never collide.
func (s *TicketService) AddAttachment(ctx context.Context, tenantID, ticketID string, actor domain.Actor, input AttachmentInput) (*domain.TicketAttachment, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.NewValidationError("file_name required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}

	attachment := &domain.TicketAttachment{
		TicketID:            ticket.ID,
		CommentID:           input.CommentID,
		UploadedByUserID:    actor.UserID,
		UploadedByContactID: actor.ContactID,
		StorageKey:          uuid.NewString(),
		FileName:            input.FileName,
		MimeType:            input.MimeType,
		SizeBytes:           input.SizeBytes,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	s.activity.Log(ctx, ticket.ID, actor, domain.ActionAttachmentAdded, nil, strPtr(attachment.FileName), nil)
	return attachment, nil
}

// Activities returns the ticket's audit timeline, newest first.
func (s *TicketService) Activities(ctx context.Context, tenantID, ticketID string, limit, offset int) ([]domain.TicketActivity, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	return s.activity.ListByTicket(ctx, ticket.ID, limit, offset)
}

// RecordTimeLogged notes tracked time against a ticket with a
// human-readable duration and bumps the ticket's updated_at.
func (s *TicketService) RecordTimeLogged(ctx context.Context, tenantID, ticketID string, actor domain.Actor, minutes int) error {
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return err
	}
	s.activity.Log(ctx, ticket.ID, actor, domain.ActionTimeLogged, nil, strPtr(domain.FormatDuration(minutes)), nil)
	if err := s.tickets.TouchUpdated(ctx, ticket.ID, s.now()); err != nil {
		s.logger.Warn("ticket touch failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event dispatch failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func strPtr(s string) *string {
	return &s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
