package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/repository"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// SlaResolution is the outcome of matching a ticket against tenant policies.
type SlaResolution struct {
	PolicyID           string
	FirstResponseDueAt time.Time
	ResolutionDueAt    time.Time
}

// SlaService owns SLA policy management and deadline resolution. Resolution
// results are cached in Redis per tenant and priority; cache failures fall
// through to Postgres silently.
type SlaService struct {
	policies repository.SlaPolicyRepository
	tickets  repository.TicketRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSlaService constructs the service. cache may be nil.
func NewSlaService(policies repository.SlaPolicyRepository, tickets repository.TicketRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *SlaService {
	return &SlaService{
		policies: policies,
		tickets:  tickets,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// SlaPolicyInput describes policy create/update payloads.
type SlaPolicyInput struct {
	Name                 string
	Priority             domain.SlaPriority
	FirstResponseMinutes int
	ResolutionMinutes    int
	BusinessHoursOnly    bool
	IsActive             bool
	IsDefault            bool
}

func (in SlaPolicyInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if !domain.ValidSlaPriority(in.Priority) {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": in.Priority})
	}
	if in.FirstResponseMinutes <= 0 || in.ResolutionMinutes <= 0 {
		return apperrors.NewValidationError("response and resolution minutes must be positive", nil)
	}
	return nil
}

// CreatePolicy stores a new policy. Setting is_default atomically unsets the
// previous default for the same priority value.
func (s *SlaService) CreatePolicy(ctx context.Context, tenantID string, input SlaPolicyInput) (*domain.SlaPolicy, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	policy := &domain.SlaPolicy{
		TenantID:             tenantID,
		Name:                 strings.TrimSpace(input.Name),
		Priority:             input.Priority,
		FirstResponseMinutes: input.FirstResponseMinutes,
		ResolutionMinutes:    input.ResolutionMinutes,
		BusinessHoursOnly:    input.BusinessHoursOnly,
		IsActive:             input.IsActive,
		IsDefault:            input.IsDefault,
	}
	if err := s.policies.Create(ctx, policy); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, tenantID)
	return policy, nil
}

// UpdatePolicy replaces a policy's attributes.
func (s *SlaService) UpdatePolicy(ctx context.Context, tenantID, policyID string, input SlaPolicyInput) (*domain.SlaPolicy, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	policy, err := s.policies.GetByID(ctx, tenantID, policyID)
	if err != nil {
		return nil, err
	}
	policy.Name = strings.TrimSpace(input.Name)
	policy.Priority = input.Priority
	policy.FirstResponseMinutes = input.FirstResponseMinutes
	policy.ResolutionMinutes = input.ResolutionMinutes
	policy.BusinessHoursOnly = input.BusinessHoursOnly
	policy.IsActive = input.IsActive
	policy.IsDefault = input.IsDefault
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, tenantID)
	return policy, nil
}

// ListPolicies returns the tenant's policies.
func (s *SlaService) ListPolicies(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
	return s.policies.ListByTenant(ctx, tenantID)
}

// DeletePolicy removes a policy. Tickets already stamped keep their
// deadlines.
func (s *SlaService) DeletePolicy(ctx context.Context, tenantID, policyID string) error {
	if err := s.policies.Delete(ctx, tenantID, policyID); err != nil {
		return err
	}
	s.invalidateCache(ctx, tenantID)
	return nil
}

// Resolve selects the applicable policy for a priority and computes due
// timestamps from the reference time. A nil resolution with nil error means
// the tenant has no matching policy, which is not an error condition.
func (s *SlaService) Resolve(ctx context.Context, tenantID string, priority domain.TicketPriority, ref time.Time) (*SlaResolution, error) {
	if policy := s.cachedPolicy(ctx, tenantID, priority); policy != nil {
		return resolutionFrom(policy, ref), nil
	}

	policies, err := s.policies.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	policy := selectPolicy(policies, priority)
	if policy == nil {
		return nil, nil
	}
	s.cachePolicy(ctx, tenantID, priority, policy)
	return resolutionFrom(policy, ref), nil
}

// ApplyToTicket recomputes SLA deadlines for an existing ticket from its
// creation time and stamps them. With no matching policy the stamp clears
// the SLA fields.
func (s *SlaService) ApplyToTicket(ctx context.Context, tenantID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}

	resolution, err := s.Resolve(ctx, tenantID, ticket.Priority, ticket.CreatedAt)
	if err != nil {
		return nil, err
	}

	stamp := repository.SlaStamp{}
	if resolution != nil {
		stamp.PolicyID = &resolution.PolicyID
		stamp.FirstResponseDueAt = &resolution.FirstResponseDueAt
		stamp.ResolutionDueAt = &resolution.ResolutionDueAt
	}
	if err := s.tickets.UpdateSla(ctx, tenantID, ticketID, stamp); err != nil {
		return nil, err
	}

	ticket.SlaPolicyID = stamp.PolicyID
	ticket.FirstResponseDueAt = stamp.FirstResponseDueAt
	ticket.ResolutionDueAt = stamp.ResolutionDueAt
	return ticket, nil
}

// SweepBreaches marks tickets whose SLA deadlines have passed. Flags are
// monotonic; the sweep never clears them.
func (s *SlaService) SweepBreaches(ctx context.Context, now time.Time) error {
	firstResponse, err := s.tickets.MarkFirstResponseBreaches(ctx, now)
	if err != nil {
		return err
	}
	resolution, err := s.tickets.MarkResolutionBreaches(ctx, now)
	if err != nil {
		return err
	}
	if firstResponse > 0 || resolution > 0 {
		s.logger.Info("sla breaches marked",
			zap.Int64("first_response", firstResponse),
			zap.Int64("resolution", resolution))
	}
	return nil
}

// selectPolicy prefers an exact priority match over the wildcard, and a
// default policy over a non-default one within each group.
func selectPolicy(policies []domain.SlaPolicy, priority domain.TicketPriority) *domain.SlaPolicy {
	var exact, wildcard *domain.SlaPolicy
	for i := range policies {
		policy := &policies[i]
		if !policy.Priority.Matches(priority) {
			continue
		}
		if policy.Priority == domain.SlaPriorityAll {
			wildcard = preferDefault(wildcard, policy)
		} else {
			exact = preferDefault(exact, policy)
		}
	}
	if exact != nil {
		return exact
	}
	return wildcard
}

func preferDefault(current, candidate *domain.SlaPolicy) *domain.SlaPolicy {
	if current == nil {
		return candidate
	}
	if candidate.IsDefault && !current.IsDefault {
		return candidate
	}
	return current
}

func resolutionFrom(policy *domain.SlaPolicy, ref time.Time) *SlaResolution {
	firstResponse, resolution := policy.Deadlines(ref)
	return &SlaResolution{
		PolicyID:           policy.ID,
		FirstResponseDueAt: firstResponse,
		ResolutionDueAt:    resolution,
	}
}

func slaCacheKey(tenantID string, priority domain.TicketPriority) string {
	return fmt.Sprintf("sla:%s:%s", tenantID, priority)
}

func (s *SlaService) cachedPolicy(ctx context.Context, tenantID string, priority domain.TicketPriority) *domain.SlaPolicy {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, slaCacheKey(tenantID, priority)).Bytes()
	if err != nil {
		return nil
	}
	var policy domain.SlaPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil
	}
	return &policy
}

func (s *SlaService) cachePolicy(ctx context.Context, tenantID string, priority domain.TicketPriority, policy *domain.SlaPolicy) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, slaCacheKey(tenantID, priority), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("sla cache set failed", zap.Error(err))
	}
}

func (s *SlaService) invalidateCache(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, 4)
	for _, priority := range []domain.TicketPriority{
		domain.TicketPriorityLow, domain.TicketPriorityNormal,
		domain.TicketPriorityHigh, domain.TicketPriorityCritical,
	} {
		keys = append(keys, slaCacheKey(tenantID, priority))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Debug("sla cache invalidation failed", zap.Error(err))
	}
}
