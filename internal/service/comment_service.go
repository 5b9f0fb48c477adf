package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CommentService manages the immutable comment ledger. Comments surface both
// in their own ledger and as an activity marker, so a support timeline can
// interleave the two.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	resolver   *ActorResolver
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, resolver *ActorResolver, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, resolver: resolver, dispatcher: dispatcher}
}

// Add appends a comment together with its "comment_added" activity marker.
func (s *CommentService) Add(ctx context.Context, orgID, ticketID, authorProfileID, body string) (*domain.Comment, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, err
	}
	if err := validateID("author_profile_id", authorProfileID); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errorutil.NewValidationError("body is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, orgID, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		OrgID:           orgID,
		TicketID:        ticketID,
		AuthorProfileID: authorProfileID,
		Body:            body,
	}
	entry := &domain.ActivityEntry{
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: &authorProfileID,
		EventType:      domain.EventCommentAdded,
		Summary:        "comment added",
	}
	if err := s.comments.Create(ctx, comment, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventCommentAdded,
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: &authorProfileID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Body, 120),
		},
	})
	return comment, nil
}

// List returns comments newest-first with authors resolved in one batched
// lookup. A failed lookup degrades to nil authors with a warning; it never
// fails the list.
func (s *CommentService) List(ctx context.Context, orgID, ticketID string, limit int) ([]domain.CommentWithAuthor, []string, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, orgID, ticketID, limit)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.AuthorProfileID)
	}

	var warnings []string
	profiles, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		warnings = append(warnings, "author resolution failed: "+err.Error())
		profiles = nil
	}

	result := make([]domain.CommentWithAuthor, 0, len(comments))
	for _, comment := range comments {
		decorated := domain.CommentWithAuthor{Comment: comment}
		if profile, ok := profiles[comment.AuthorProfileID]; ok {
			p := profile
			decorated.Author = &p
		}
		result = append(result, decorated)
	}
	return result, warnings, nil
}

// Delete removes a comment and appends a "comment_deleted" activity entry.
// This is the only way a comment ever leaves the ledger; edits do not exist.
func (s *CommentService) Delete(ctx context.Context, orgID, ticketID, commentID string, actorProfileID *string) error {
	if err := validateID("org_id", orgID); err != nil {
		return err
	}
	entry := &domain.ActivityEntry{
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: actorProfileID,
		EventType:      domain.EventCommentDeleted,
		Summary:        "comment deleted",
	}
	if err := s.comments.Delete(ctx, orgID, ticketID, commentID, entry); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventCommentDeleted,
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: actorProfileID,
		Payload:        events.CommentDeletedPayload{CommentID: commentID},
	})
	return nil
}

func (s *CommentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
