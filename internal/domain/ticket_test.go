package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketNumber(t *testing.T) {
	assert.Equal(t, "TKT-000001", FormatTicketNumber(1))
	assert.Equal(t, "TKT-000042", FormatTicketNumber(42))
	assert.Equal(t, "TKT-999999", FormatTicketNumber(999999))
	// Beyond six digits the number simply grows wider.
	assert.Equal(t, "TKT-1000000", FormatTicketNumber(1000000))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusOpen))
	assert.True(t, ValidStatus(TicketStatusArchived))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("OPEN"))
}

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, IsActiveStatus(TicketStatusOpen))
	assert.True(t, IsActiveStatus(TicketStatusWaiting))
	assert.False(t, IsActiveStatus(TicketStatusResolved))
	assert.False(t, IsActiveStatus(TicketStatusClosed))
	assert.False(t, IsActiveStatus(TicketStatusArchived))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "1h 0m", FormatDuration(60))
	assert.Equal(t, "2h 15m", FormatDuration(135))
}

func TestSlaPriorityMatches(t *testing.T) {
	assert.True(t, SlaPriorityHigh.Matches(TicketPriorityHigh))
	assert.False(t, SlaPriorityHigh.Matches(TicketPriorityLow))
	assert.True(t, SlaPriorityAll.Matches(TicketPriorityLow))
	assert.True(t, SlaPriorityAll.Matches(TicketPriorityCritical))
}

func TestSlaPolicyDeadlines(t *testing.T) {
	policy := SlaPolicy{FirstResponseMinutes: 30, ResolutionMinutes: 240}
	ref := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	firstResponse, resolution := policy.Deadlines(ref)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), firstResponse)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), resolution)
}

func TestPortalCapabilitiesAllows(t *testing.T) {
	caps := PortalCapabilities{CanCreateTickets: true, CanViewInvoices: true}
	assert.True(t, caps.Allows(CapabilityCreateTickets))
	assert.True(t, caps.Allows(CapabilityViewInvoices))
	assert.False(t, caps.Allows(CapabilityViewAllTickets))
	assert.False(t, caps.Allows("unknown"))
}
