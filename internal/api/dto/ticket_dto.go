package dto

import (
	"encoding/json"
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// OptionalString distinguishes an absent JSON field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON marks the field present and captures null vs value.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// CreateTicketRequest is the admin-side creation payload.
type CreateTicketRequest struct {
	CustomerID  string                `json:"customerId"`
	ProjectID   *string               `json:"projectId,omitempty"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
}

// UpdateTicketRequest carries a partial patch; absent fields are untouched.
type UpdateTicketRequest struct {
	Title            *string                `json:"title,omitempty"`
	Description      *string                `json:"description,omitempty"`
	Status           *domain.TicketStatus   `json:"status,omitempty"`
	Priority         *domain.TicketPriority `json:"priority,omitempty"`
	AssignedToUserID OptionalString         `json:"assignedToUserId,omitempty"`
}

// CreateCommentRequest is the staff comment payload.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"isInternal,omitempty"`
}

// CreateAttachmentRequest records uploaded file metadata.
type CreateAttachmentRequest struct {
	CommentID *string `json:"commentId,omitempty"`
	FileName  string  `json:"fileName"`
	MimeType  string  `json:"mimeType,omitempty"`
	SizeBytes int64   `json:"sizeBytes,omitempty"`
}

// CreateTagRequest is the tag creation payload.
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TicketResponse is the serialized ticket.
type TicketResponse struct {
	ID                 string                `json:"id"`
	TicketNumber       string                `json:"ticketNumber"`
	CustomerID         string                `json:"customerId"`
	ProjectID          *string               `json:"projectId,omitempty"`
	Title              string                `json:"title"`
	Description        string                `json:"description,omitempty"`
	Status             domain.TicketStatus   `json:"status"`
	Priority           domain.TicketPriority `json:"priority"`
	AssignedToUserID   *string               `json:"assignedToUserId,omitempty"`
	CreatedByContactID *string               `json:"createdByContactId,omitempty"`

	SlaPolicyID              *string    `json:"slaPolicyId,omitempty"`
	FirstResponseDueAt       *time.Time `json:"firstResponseDueAt,omitempty"`
	ResolutionDueAt          *time.Time `json:"resolutionDueAt,omitempty"`
	FirstResponseAt          *time.Time `json:"firstResponseAt,omitempty"`
	SlaFirstResponseBreached bool       `json:"slaFirstResponseBreached"`
	SlaResolutionBreached    bool       `json:"slaResolutionBreached"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CommentResponse is a serialized thread entry.
type CommentResponse struct {
	ID              string    `json:"id"`
	AuthorUserID    *string   `json:"authorUserId,omitempty"`
	AuthorContactID *string   `json:"authorContactId,omitempty"`
	Content         string    `json:"content"`
	IsInternal      bool      `json:"isInternal"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TagResponse is a serialized tag.
type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ActivityResponse is a serialized audit entry.
type ActivityResponse struct {
	ID             string         `json:"id"`
	ActorUserID    *string        `json:"actorUserId,omitempty"`
	ActorContactID *string        `json:"actorContactId,omitempty"`
	Action         string         `json:"action"`
	OldValue       *string        `json:"oldValue,omitempty"`
	NewValue       *string        `json:"newValue,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// TicketDetailResponse aggregates a ticket with its related records.
type TicketDetailResponse struct {
	TicketResponse
	Comments    []CommentResponse   `json:"comments"`
	Tags        []TagResponse       `json:"tags"`
	TimeEntries []TimeEntryResponse `json:"timeEntries"`
}
