package domain

import "time"

// ActivityAction captures what changed in an audit entry.
type ActivityAction string

const (
	ActionCreated              ActivityAction = "created"
	ActionStatusChanged        ActivityAction = "status_changed"
	ActionPriorityChanged      ActivityAction = "priority_changed"
	ActionAssigned             ActivityAction = "assigned"
	ActionUnassigned           ActivityAction = "unassigned"
	ActionCommentAdded         ActivityAction = "comment_added"
	ActionInternalCommentAdded ActivityAction = "internal_comment_added"
	ActionAttachmentAdded      ActivityAction = "attachment_added"
	ActionTagAdded             ActivityAction = "tag_added"
	ActionTagRemoved           ActivityAction = "tag_removed"
	ActionTitleChanged         ActivityAction = "title_changed"
	ActionDescriptionChanged   ActivityAction = "description_changed"
	ActionResolved             ActivityAction = "resolved"
	ActionClosed               ActivityAction = "closed"
	ActionReopened             ActivityAction = "reopened"
	ActionArchived             ActivityAction = "archived"
	ActionRatingAdded          ActivityAction = "rating_added"
	ActionTimeLogged           ActivityAction = "time_logged"
)

// TicketActivity is an immutable audit trail entry. Rows are append-only:
// they are never updated or deleted after insertion, and a failed insert must
// never roll back the mutation that triggered it.
type TicketActivity struct {
	ID             string
	TicketID       string
	ActorUserID    *string
	ActorContactID *string
	Action         ActivityAction
	OldValue       *string
	NewValue       *string
	Metadata       map[string]any
	CreatedAt      time.Time
}
