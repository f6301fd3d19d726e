package domain

import "time"

// TicketTag is a tenant-scoped label. Names are unique per tenant.
type TicketTag struct {
	ID        string
	TenantID  string
	Name      string
	Color     string
	CreatedAt time.Time
}
