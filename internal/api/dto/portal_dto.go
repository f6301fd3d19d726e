package dto

import "github.com/opsdesk/helpdesk/internal/domain"

// PortalCreateTicketRequest is the contact-side creation payload. The
// customer is implied by the contact's scope, never client-supplied.
type PortalCreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
}

// PortalCommentRequest is a contact reply payload.
type PortalCommentRequest struct {
	Content string `json:"content"`
}

// PortalTicketDetailResponse is the customer-safe ticket view.
type PortalTicketDetailResponse struct {
	TicketResponse
	Comments []CommentResponse `json:"comments"`
}
