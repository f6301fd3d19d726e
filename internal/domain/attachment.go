package domain

import "time"

// TicketAttachment stores metadata for an uploaded file. The physical file
// lives in external storage keyed by StorageKey; keys are random so no two
// uploads collide.
type TicketAttachment struct {
	ID                  string
	TicketID            string
	CommentID           *string
	UploadedByUserID    *string
	UploadedByContactID *string
	StorageKey          string
	FileName            string
	MimeType            string
	SizeBytes           int64
	CreatedAt           time.Time
}
