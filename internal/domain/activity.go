package domain

import "time"

// ActivityEventType classifies an audit entry.
type ActivityEventType string

const (
	EventTicketCreated  ActivityEventType = "created"
	EventTicketUpdated  ActivityEventType = "updated"
	EventCommentAdded   ActivityEventType = "comment_added"
	EventCommentDeleted ActivityEventType = "comment_deleted"
)

// ActivityEntry is an immutable audit record of a ticket mutation. Entries
// are append-only: never updated or deleted. ActorProfileID is nil for
// system-originated events.
type ActivityEntry struct {
	ID             string
	OrgID          string
	TicketID       string
	ActorProfileID *string
	EventType      ActivityEventType
	Summary        string
	Diff           Diff
	CreatedAt      time.Time
}

// ActivityWithActor decorates an entry with its resolved actor. Actor is nil
// for system events and for profiles that can no longer be resolved.
type ActivityWithActor struct {
	ActivityEntry
	Actor *Profile
}
