package dto

import (
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// SlaPolicyRequest is the policy create/update payload.
type SlaPolicyRequest struct {
	Name                 string             `json:"name"`
	Priority             domain.SlaPriority `json:"priority"`
	FirstResponseMinutes int                `json:"firstResponseMinutes"`
	ResolutionMinutes    int                `json:"resolutionMinutes"`
	BusinessHoursOnly    bool               `json:"businessHoursOnly,omitempty"`
	IsActive             *bool              `json:"isActive,omitempty"`
	IsDefault            bool               `json:"isDefault,omitempty"`
}

// SlaPolicyResponse is a serialized policy.
type SlaPolicyResponse struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Priority             domain.SlaPriority `json:"priority"`
	FirstResponseMinutes int                `json:"firstResponseMinutes"`
	ResolutionMinutes    int                `json:"resolutionMinutes"`
	BusinessHoursOnly    bool               `json:"businessHoursOnly"`
	IsActive             bool               `json:"isActive"`
	IsDefault            bool               `json:"isDefault"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}
