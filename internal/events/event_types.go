package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventCommentAdded   EventType = "comment_added"
	EventCommentDeleted EventType = "comment_deleted"
)

// Event represents a domain event emitted by services. ActorProfileID is nil
// for system-originated events.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	OrgID          string      `json:"org_id"`
	TicketID       string      `json:"ticket_id"`
	ActorProfileID *string     `json:"actor_profile_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string                `json:"subject"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// CommentDeletedPayload payload.
type CommentDeletedPayload struct {
	CommentID string `json:"comment_id"`
}
