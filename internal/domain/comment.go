package domain

import "time"

// Comment is a human-authored remark on a ticket. Comments are immutable
// once created: there is no update path. Deletion is a separate, audited
// operation, never an edit.
type Comment struct {
	ID              string
	OrgID           string
	TicketID        string
	AuthorProfileID string
	Body            string
	CreatedAt       time.Time
}

// CommentWithAuthor decorates a comment with its resolved author. Author is
// nil when the profile cannot be resolved (deleted or unknown actor).
type CommentWithAuthor struct {
	Comment
	Author *Profile
}
