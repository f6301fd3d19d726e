package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusArchived   TicketStatus = "archived"
)

// ValidStatus reports whether the value is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting,
		TicketStatusResolved, TicketStatusClosed, TicketStatusArchived:
		return true
	}
	return false
}

// IsActiveStatus reports whether the status is a non-terminal working state.
func IsActiveStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidPriority reports whether the value is a known ticket priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for helpdesk requests. Every ticket is owned by
// exactly one tenant and one of that tenant's customers.
type Ticket struct {
	ID                 string
	TenantID           string
	TicketNumber       string
	CustomerID         string
	ProjectID          *string
	Title              string
	Description        string
	Status             TicketStatus
	Priority           TicketPriority
	AssignedToUserID   *string
	CreatedByContactID *string

	SlaPolicyID              *string
	FirstResponseDueAt       *time.Time
	ResolutionDueAt          *time.Time
	FirstResponseAt          *time.Time
	SlaFirstResponseBreached bool
	SlaResolutionBreached    bool

	ResolvedAt *time.Time
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FormatTicketNumber renders a sequence value as the human-facing ticket
// number. The counter is zero-padded to six digits and simply grows wider
// beyond 999999.
func FormatTicketNumber(n int64) string {
	return fmt.Sprintf("TKT-%06d", n)
}
