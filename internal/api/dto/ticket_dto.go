package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	LeadID      *string `json:"lead_id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
}

// UpdateTicketRequest carries a partial patch; absent fields are untouched.
type UpdateTicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// TicketResponse response.
type TicketResponse struct {
	ID          string                `json:"id"`
	OrgID       string                `json:"org_id"`
	LeadID      *string               `json:"lead_id,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description,omitempty"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse bundles a ticket with its ledgers.
type TicketDetailResponse struct {
	TicketResponse
	Comments []CommentResponse  `json:"comments"`
	Activity []ActivityResponse `json:"activity"`
}

// ProfileResponse identifies a resolved actor.
type ProfileResponse struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// CreateCommentRequest payload. The author is taken from the caller's token.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse response. Author is null when the profile cannot be
// resolved.
type CommentResponse struct {
	ID        string           `json:"id"`
	TicketID  string           `json:"ticket_id"`
	Body      string           `json:"body"`
	Author    *ProfileResponse `json:"author"`
	CreatedAt time.Time        `json:"created_at"`
}

// ActivityResponse response. Diff is the structured before/after mapping,
// round-tripped exactly as stored.
type ActivityResponse struct {
	ID        string                   `json:"id"`
	TicketID  string                   `json:"ticket_id"`
	EventType domain.ActivityEventType `json:"event_type"`
	Summary   string                   `json:"summary"`
	Actor     *ProfileResponse         `json:"actor"`
	Diff      domain.Diff              `json:"diff,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}
