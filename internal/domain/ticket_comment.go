package domain

import "time"

// TicketComment captures a thread entry on a ticket. A comment is authored
// by exactly one of a tenant user or a customer contact; IsInternal can only
// be true for user-authored comments and internal comments are never exposed
// through the customer portal.
type TicketComment struct {
	ID              string
	TicketID        string
	AuthorUserID    *string
	AuthorContactID *string
	Content         string
	IsInternal      bool
	CreatedAt       time.Time
}

// AuthoredByContact reports whether a customer contact wrote the comment.
func (c *TicketComment) AuthoredByContact() bool {
	return c.AuthorContactID != nil
}
