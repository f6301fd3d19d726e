package domain

import "time"

// Customer is a tenant's client organization and the subject of tickets.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PortalCapability names a customer-portal permission flag.
type PortalCapability string

const (
	CapabilityCreateTickets  PortalCapability = "create_tickets"
	CapabilityViewAllTickets PortalCapability = "view_all_tickets"
	CapabilityViewDevices    PortalCapability = "view_devices"
	CapabilityViewInvoices   PortalCapability = "view_invoices"
	CapabilityViewQuotes     PortalCapability = "view_quotes"
)

// PortalCapabilities bundles the boolean permission flags carried by a
// customer contact. Checks go through Allows so every portal gate uses the
// same decision point.
type PortalCapabilities struct {
	CanCreateTickets  bool
	CanViewAllTickets bool
	CanViewDevices    bool
	CanViewInvoices   bool
	CanViewQuotes     bool
}

// Allows reports whether the capability flag is set.
func (p PortalCapabilities) Allows(capability PortalCapability) bool {
	switch capability {
	case CapabilityCreateTickets:
		return p.CanCreateTickets
	case CapabilityViewAllTickets:
		return p.CanViewAllTickets
	case CapabilityViewDevices:
		return p.CanViewDevices
	case CapabilityViewInvoices:
		return p.CanViewInvoices
	case CapabilityViewQuotes:
		return p.CanViewQuotes
	}
	return false
}

// CustomerContact is an external portal identity scoped to one customer.
type CustomerContact struct {
	ID           string
	TenantID     string
	CustomerID   string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	Capabilities PortalCapabilities
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
