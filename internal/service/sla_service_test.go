package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

func newSlaFixture() (*SlaService, *mockSlaPolicyRepository, *mockTicketRepository) {
	policies := &mockSlaPolicyRepository{}
	tickets := &mockTicketRepository{}
	return NewSlaService(policies, tickets, nil, 0, zap.NewNop()), policies, tickets
}

func TestSlaService_Resolve_DeadlineArithmetic(t *testing.T) {
	service, policies, _ := newSlaFixture()
	policies.ListActiveByTenantFunc = func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
		return []domain.SlaPolicy{{
			ID:                   "policy-1",
			Priority:             domain.SlaPriorityCritical,
			FirstResponseMinutes: 30,
			ResolutionMinutes:    240,
			IsActive:             true,
		}}, nil
	}

	ref := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	resolution, err := service.Resolve(context.Background(), "tenant-1", domain.TicketPriorityCritical, ref)

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), resolution.FirstResponseDueAt)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), resolution.ResolutionDueAt)
}

func TestSlaService_Resolve_ExactPriorityBeatsWildcardDefault(t *testing.T) {
	service, policies, _ := newSlaFixture()
	policies.ListActiveByTenantFunc = func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
		return []domain.SlaPolicy{
			{ID: "wildcard", Priority: domain.SlaPriorityAll, FirstResponseMinutes: 60, ResolutionMinutes: 480, IsActive: true, IsDefault: true},
			{ID: "high", Priority: domain.SlaPriorityHigh, FirstResponseMinutes: 15, ResolutionMinutes: 120, IsActive: true},
		}, nil
	}

	resolution, err := service.Resolve(context.Background(), "tenant-1", domain.TicketPriorityHigh, time.Now())

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.Equal(t, "high", resolution.PolicyID)
}

func TestSlaService_Resolve_WildcardCoversUnmatchedPriorities(t *testing.T) {
	service, policies, _ := newSlaFixture()
	policies.ListActiveByTenantFunc = func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
		return []domain.SlaPolicy{
			{ID: "wildcard", Priority: domain.SlaPriorityAll, FirstResponseMinutes: 60, ResolutionMinutes: 480, IsActive: true},
			{ID: "high", Priority: domain.SlaPriorityHigh, FirstResponseMinutes: 15, ResolutionMinutes: 120, IsActive: true},
		}, nil
	}

	resolution, err := service.Resolve(context.Background(), "tenant-1", domain.TicketPriorityLow, time.Now())

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.Equal(t, "wildcard", resolution.PolicyID)
}

func TestSlaService_Resolve_DefaultPreferredWithinGroup(t *testing.T) {
	service, policies, _ := newSlaFixture()
	policies.ListActiveByTenantFunc = func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
		return []domain.SlaPolicy{
			{ID: "plain", Priority: domain.SlaPriorityHigh, FirstResponseMinutes: 20, ResolutionMinutes: 200, IsActive: true},
			{ID: "preferred", Priority: domain.SlaPriorityHigh, FirstResponseMinutes: 15, ResolutionMinutes: 120, IsActive: true, IsDefault: true},
		}, nil
	}

	resolution, err := service.Resolve(context.Background(), "tenant-1", domain.TicketPriorityHigh, time.Now())

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.Equal(t, "preferred", resolution.PolicyID)
}

func TestSlaService_Resolve_NoMatchingPolicyIsNotAnError(t *testing.T) {
	service, _, _ := newSlaFixture()

	resolution, err := service.Resolve(context.Background(), "tenant-1", domain.TicketPriorityLow, time.Now())

	require.NoError(t, err)
	assert.Nil(t, resolution)
}

func TestSlaService_CreatePolicy_Validation(t *testing.T) {
	service, _, _ := newSlaFixture()

	_, err := service.CreatePolicy(context.Background(), "tenant-1", SlaPolicyInput{
		Name:                 "broken",
		Priority:             domain.SlaPriorityHigh,
		FirstResponseMinutes: 0,
		ResolutionMinutes:    60,
		IsActive:             true,
	})

	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = service.CreatePolicy(context.Background(), "tenant-1", SlaPolicyInput{
		Name:                 "broken",
		Priority:             "urgent",
		FirstResponseMinutes: 10,
		ResolutionMinutes:    60,
		IsActive:             true,
	})
	require.Error(t, err)
}

func TestSlaService_ApplyToTicket_RecomputesFromCreation(t *testing.T) {
	service, policies, tickets := newSlaFixture()
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID:        id,
			TenantID:  tenantID,
			Priority:  domain.TicketPriorityHigh,
			CreatedAt: created,
		}, nil
	}
	policies.ListActiveByTenantFunc = func(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
		return []domain.SlaPolicy{{
			ID: "policy-1", Priority: domain.SlaPriorityHigh,
			FirstResponseMinutes: 15, ResolutionMinutes: 120, IsActive: true,
		}}, nil
	}
	var stamped repository.SlaStamp
	tickets.UpdateSlaFunc = func(ctx context.Context, tenantID, id string, stamp repository.SlaStamp) error {
		stamped = stamp
		return nil
	}

	ticket, err := service.ApplyToTicket(context.Background(), "tenant-1", "ticket-1")

	require.NoError(t, err)
	require.NotNil(t, stamped.PolicyID)
	assert.Equal(t, "policy-1", *stamped.PolicyID)
	assert.Equal(t, created.Add(15*time.Minute), *ticket.FirstResponseDueAt)
	assert.Equal(t, created.Add(120*time.Minute), *ticket.ResolutionDueAt)
}

func TestSlaService_ApplyToTicket_ClearsWhenNoPolicyMatches(t *testing.T) {
	service, _, tickets := newSlaFixture()
	policyID := "stale"
	tickets.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
		return &domain.Ticket{
			ID: id, TenantID: tenantID,
			Priority:    domain.TicketPriorityLow,
			SlaPolicyID: &policyID,
			CreatedAt:   time.Now(),
		}, nil
	}
	var stamped repository.SlaStamp
	tickets.UpdateSlaFunc = func(ctx context.Context, tenantID, id string, stamp repository.SlaStamp) error {
		stamped = stamp
		return nil
	}

	ticket, err := service.ApplyToTicket(context.Background(), "tenant-1", "ticket-1")

	require.NoError(t, err)
	assert.Nil(t, stamped.PolicyID)
	assert.Nil(t, ticket.SlaPolicyID)
	assert.Nil(t, ticket.FirstResponseDueAt)
	assert.Nil(t, ticket.ResolutionDueAt)
}

func TestSlaService_SweepBreaches(t *testing.T) {
	service, _, tickets := newSlaFixture()
	var firstResponseAt, resolutionAt time.Time
	tickets.MarkFirstResponseBreachesFunc = func(ctx context.Context, now time.Time) (int64, error) {
		firstResponseAt = now
		return 2, nil
	}
	tickets.MarkResolutionBreachesFunc = func(ctx context.Context, now time.Time) (int64, error) {
		resolutionAt = now
		return 1, nil
	}

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, service.SweepBreaches(context.Background(), now))
	assert.Equal(t, now, firstResponseAt)
	assert.Equal(t, now, resolutionAt)
}
