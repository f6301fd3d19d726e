package dto

import "time"

// TimeEntryRequest is the time entry create/update payload.
type TimeEntryRequest struct {
	ProjectID   *string   `json:"projectId,omitempty"`
	TicketID    *string   `json:"ticketId,omitempty"`
	Description string    `json:"description,omitempty"`
	Minutes     int       `json:"minutes"`
	Billable    bool      `json:"billable,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
}

// TimeEntryResponse is a serialized time entry.
type TimeEntryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ProjectID   *string   `json:"projectId,omitempty"`
	TicketID    *string   `json:"ticketId,omitempty"`
	Description string    `json:"description,omitempty"`
	Minutes     int       `json:"minutes"`
	Billable    bool      `json:"billable"`
	StartedAt   time.Time `json:"startedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
