package domain

import "time"

// SlaPriority is a ticket priority or the wildcard matching every priority.
type SlaPriority string

const (
	SlaPriorityLow      SlaPriority = "low"
	SlaPriorityNormal   SlaPriority = "normal"
	SlaPriorityHigh     SlaPriority = "high"
	SlaPriorityCritical SlaPriority = "critical"
	SlaPriorityAll      SlaPriority = "all"
)

// ValidSlaPriority reports whether the value is a known SLA priority.
func ValidSlaPriority(p SlaPriority) bool {
	switch p {
	case SlaPriorityLow, SlaPriorityNormal, SlaPriorityHigh, SlaPriorityCritical, SlaPriorityAll:
		return true
	}
	return false
}

// Matches reports whether the policy priority applies to a ticket priority.
func (p SlaPriority) Matches(priority TicketPriority) bool {
	return p == SlaPriorityAll || string(p) == string(priority)
}

// SlaPolicy defines tenant response/resolution targets per priority.
// BusinessHoursOnly is persisted but deadline math is wall-clock additive;
// the flag takes effect only if business-hours scheduling ever lands.
type SlaPolicy struct {
	ID                   string
	TenantID             string
	Name                 string
	Priority             SlaPriority
	FirstResponseMinutes int
	ResolutionMinutes    int
	BusinessHoursOnly    bool
	IsActive             bool
	IsDefault            bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Deadlines computes due timestamps from a reference time.
func (p *SlaPolicy) Deadlines(ref time.Time) (firstResponse, resolution time.Time) {
	return ref.Add(time.Duration(p.FirstResponseMinutes) * time.Minute),
		ref.Add(time.Duration(p.ResolutionMinutes) * time.Minute)
}
