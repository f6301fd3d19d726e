package service

import (
	"context"
	"sync"
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/repository"
)

type mockTicketRepository struct {
	CreateFunc                    func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc                    func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFunc                   func(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	ListWithFilterFunc            func(ctx context.Context, tenantID string, filter repository.TicketFilter) ([]domain.Ticket, error)
	DeleteFunc                    func(ctx context.Context, tenantID, id string) error
	SetFirstResponseAtFunc        func(ctx context.Context, id string, at time.Time) error
	UpdateSlaFunc                 func(ctx context.Context, tenantID, id string, stamp repository.SlaStamp) error
	TouchUpdatedFunc              func(ctx context.Context, id string, at time.Time) error
	MarkFirstResponseBreachesFunc func(ctx context.Context, now time.Time) (int64, error)
	MarkResolutionBreachesFunc    func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListWithFilter(ctx context.Context, tenantID string, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.ListWithFilterFunc != nil {
		return m.ListWithFilterFunc(ctx, tenantID, filter)
	}
	return nil, nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, tenantID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, id)
	}
	return nil
}

func (m *mockTicketRepository) SetFirstResponseAt(ctx context.Context, id string, at time.Time) error {
	if m.SetFirstResponseAtFunc != nil {
		return m.SetFirstResponseAtFunc(ctx, id, at)
	}
	return nil
}

func (m *mockTicketRepository) UpdateSla(ctx context.Context, tenantID, id string, stamp repository.SlaStamp) error {
	if m.UpdateSlaFunc != nil {
		return m.UpdateSlaFunc(ctx, tenantID, id, stamp)
	}
	return nil
}

func (m *mockTicketRepository) TouchUpdated(ctx context.Context, id string, at time.Time) error {
	if m.TouchUpdatedFunc != nil {
		return m.TouchUpdatedFunc(ctx, id, at)
	}
	return nil
}

func (m *mockTicketRepository) MarkFirstResponseBreaches(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkFirstResponseBreachesFunc != nil {
		return m.MarkFirstResponseBreachesFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockTicketRepository) MarkResolutionBreaches(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkResolutionBreachesFunc != nil {
		return m.MarkResolutionBreachesFunc(ctx, now)
	}
	return 0, nil
}

type mockCustomerRepository struct {
	GetByIDFunc      func(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	ListByTenantFunc func(ctx context.Context, tenantID string) ([]domain.Customer, error)
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return &domain.Customer{ID: id, TenantID: tenantID}, nil
}

func (m *mockCustomerRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

type mockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.TicketComment) error
	ListByTicketFunc func(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.TicketComment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	comment.ID = "comment-1"
	return nil
}

func (m *mockCommentRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, includeInternal)
	}
	return nil, nil
}

type mockTagRepository struct {
	CreateFunc       func(ctx context.Context, tag *domain.TicketTag) error
	GetByIDFunc      func(ctx context.Context, tenantID, id string) (*domain.TicketTag, error)
	ListByTenantFunc func(ctx context.Context, tenantID string) ([]domain.TicketTag, error)
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]domain.TicketTag, error)
	DeleteFunc       func(ctx context.Context, tenantID, id string) error
	AssignFunc       func(ctx context.Context, ticketID, tagID string) (bool, error)
	UnassignFunc     func(ctx context.Context, ticketID, tagID string) (bool, error)
}

func (m *mockTagRepository) Create(ctx context.Context, tag *domain.TicketTag) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tag)
	}
	return nil
}

func (m *mockTagRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TicketTag, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return &domain.TicketTag{ID: id, TenantID: tenantID, Name: "tag"}, nil
}

func (m *mockTagRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.TicketTag, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockTagRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketTag, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTagRepository) Delete(ctx context.Context, tenantID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, id)
	}
	return nil
}

func (m *mockTagRepository) Assign(ctx context.Context, ticketID, tagID string) (bool, error) {
	if m.AssignFunc != nil {
		return m.AssignFunc(ctx, ticketID, tagID)
	}
	return true, nil
}

func (m *mockTagRepository) Unassign(ctx context.Context, ticketID, tagID string) (bool, error) {
	if m.UnassignFunc != nil {
		return m.UnassignFunc(ctx, ticketID, tagID)
	}
	return true, nil
}

type mockAttachmentRepository struct {
	CreateFunc       func(ctx context.Context, attachment *domain.TicketAttachment) error
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error)
}

func (m *mockAttachmentRepository) Create(ctx context.Context, attachment *domain.TicketAttachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attachment)
	}
	attachment.ID = "attachment-1"
	return nil
}

func (m *mockAttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockTimeEntryRepository struct {
	CreateFunc       func(ctx context.Context, entry *domain.TimeEntry) error
	UpdateFunc       func(ctx context.Context, entry *domain.TimeEntry) error
	GetByIDFunc      func(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error)
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]domain.TimeEntry, error)
}

func (m *mockTimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	entry.ID = "entry-1"
	return nil
}

func (m *mockTimeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, entry)
	}
	return nil
}

func (m *mockTimeEntryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockSlaPolicyRepository struct {
	CreateFunc             func(ctx context.Context, policy *domain.SlaPolicy) error
	UpdateFunc             func(ctx context.Context, policy *domain.SlaPolicy) error
	GetByIDFunc            func(ctx context.Context, tenantID, id string) (*domain.SlaPolicy, error)
	ListByTenantFunc       func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error)
	ListActiveByTenantFunc func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error)
	DeleteFunc             func(ctx context.Context, tenantID, id string) error
}

func (m *mockSlaPolicyRepository) Create(ctx context.Context, policy *domain.SlaPolicy) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, policy)
	}
	policy.ID = "policy-1"
	return nil
}

func (m *mockSlaPolicyRepository) Update(ctx context.Context, policy *domain.SlaPolicy) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, policy)
	}
	return nil
}

func (m *mockSlaPolicyRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SlaPolicy, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *mockSlaPolicyRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockSlaPolicyRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
	if m.ListActiveByTenantFunc != nil {
		return m.ListActiveByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockSlaPolicyRepository) Delete(ctx context.Context, tenantID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, id)
	}
	return nil
}

type mockActivityRepository struct {
	mu      sync.Mutex
	entries []domain.TicketActivity
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *domain.TicketActivity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *activity)
	return nil
}

func (m *mockActivityRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TicketActivity
	for _, entry := range m.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockActivityRepository) actions() []domain.ActivityAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ActivityAction, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry.Action)
	}
	return out
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
