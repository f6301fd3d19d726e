package events

import (
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReplyAdded    EventType = "ticket_reply_added"
)

// Event represents a notification intent emitted by the ticket engine.
// Dispatch is fire-and-forget: publishing never fails the mutation that
// produced the event.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TenantID  string       `json:"tenant_id"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload accompanies EventTicketCreated. ContactID is set for
// portal-created tickets so staff alert and contact confirmation can both be
// addressed.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	CustomerID   string                `json:"customer_id"`
	ContactID    *string               `json:"contact_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload accompanies EventTicketStatusChanged.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketReplyAddedPayload accompanies EventTicketReplyAdded. It is only
// emitted for non-internal comments and is directed at whichever party did
// not author the comment.
type TicketReplyAddedPayload struct {
	CommentID       string  `json:"comment_id"`
	AuthorUserID    *string `json:"author_user_id,omitempty"`
	AuthorContactID *string `json:"author_contact_id,omitempty"`
	BodyPreview     string  `json:"body_preview"`
}
