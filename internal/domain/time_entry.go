package domain

import (
	"fmt"
	"time"
)

// TimeEntry records tracked work time, optionally linked to a ticket.
type TimeEntry struct {
	ID          string
	TenantID    string
	UserID      string
	ProjectID   *string
	TicketID    *string
	Description string
	Minutes     int
	Billable    bool
	StartedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormatDuration renders minutes as "{h}h {m}m", or "{m}m" under an hour.
func FormatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
