package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle. Every mutation it performs
// produces exactly one activity entry, written atomically with the ticket row.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	LeadID         *string
	Subject        string
	Description    string
	Priority       domain.TicketPriority
	Status         domain.TicketStatus
	ActorProfileID *string
}

// Create validates input, applies defaults (status open, priority normal)
// and persists the ticket together with its "created" activity entry.
func (s *TicketService) Create(ctx context.Context, orgID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, errorutil.NewValidationError("subject is required", nil)
	}
	if input.LeadID != nil {
		if err := validateID("lead_id", *input.LeadID); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if !domain.ValidStatus(status) {
		return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": string(priority)})
	}

	ticket := &domain.Ticket{
		OrgID:       orgID,
		LeadID:      input.LeadID,
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
	}
	entry := &domain.ActivityEntry{
		OrgID:          orgID,
		ActorProfileID: input.ActorProfileID,
		EventType:      domain.EventTicketCreated,
		Summary:        "ticket created",
	}
	if err := s.tickets.Create(ctx, ticket, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketCreated,
		OrgID:          orgID,
		TicketID:       ticket.ID,
		ActorProfileID: input.ActorProfileID,
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// List returns tickets newest-first with an optional status filter.
func (s *TicketService) List(ctx context.Context, orgID string, status *domain.TicketStatus, limit int) ([]domain.Ticket, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, err
	}
	if status != nil && !domain.ValidStatus(*status) {
		return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": string(*status)})
	}
	return s.tickets.List(ctx, orgID, status, limit)
}

// Get fetches a single ticket within the organization.
func (s *TicketService) Get(ctx context.Context, orgID, ticketID string) (*domain.Ticket, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, err
	}
	return s.tickets.GetByID(ctx, orgID, ticketID)
}

// Update applies a partial patch. The diff against the prior row covers
// exactly the fields that changed; a patch that changes nothing is a no-op
// returning the unchanged row with no new activity entry.
func (s *TicketService) Update(ctx context.Context, orgID, ticketID string, patch domain.TicketPatch, actorProfileID *string) (*domain.Ticket, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, err
	}
	current, err := s.tickets.GetByID(ctx, orgID, ticketID)
	if err != nil {
		return nil, err
	}

	updated := *current
	diff, err := applyPatch(&updated, patch)
	if err != nil {
		return nil, err
	}
	if len(diff) == 0 {
		return current, nil
	}

	fields := make([]string, 0, len(diff))
	for field := range diff {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	entry := &domain.ActivityEntry{
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: actorProfileID,
		EventType:      domain.EventTicketUpdated,
		Summary:        "updated " + strings.Join(fields, ", "),
		Diff:           diff,
	}
	if err := s.tickets.Update(ctx, &updated, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketUpdated,
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: actorProfileID,
		Payload:        events.TicketUpdatedPayload{ChangedFields: fields},
	})
	return &updated, nil
}

// applyPatch mutates ticket in place and returns the diff of fields that
// actually changed. Before and after always differ for every key.
func applyPatch(ticket *domain.Ticket, patch domain.TicketPatch) (domain.Diff, error) {
	diff := domain.Diff{}

	if patch.Subject != nil {
		subject := strings.TrimSpace(*patch.Subject)
		if subject == "" {
			return nil, errorutil.NewValidationError("subject cannot be empty", nil)
		}
		if subject != ticket.Subject {
			diff["subject"] = domain.FieldChange{
				Before: domain.StringValue(ticket.Subject),
				After:  domain.StringValue(subject),
			}
			ticket.Subject = subject
		}
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description != ticket.Description {
			diff["description"] = domain.FieldChange{
				Before: optionalString(ticket.Description),
				After:  optionalString(description),
			}
			ticket.Description = description
		}
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": string(*patch.Status)})
		}
		if *patch.Status != ticket.Status {
			diff["status"] = domain.FieldChange{
				Before: domain.StringValue(string(ticket.Status)),
				After:  domain.StringValue(string(*patch.Status)),
			}
			ticket.Status = *patch.Status
		}
	}
	if patch.Priority != nil {
		if !domain.ValidPriority(*patch.Priority) {
			return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": string(*patch.Priority)})
		}
		if *patch.Priority != ticket.Priority {
			diff["priority"] = domain.FieldChange{
				Before: domain.StringValue(string(ticket.Priority)),
				After:  domain.StringValue(string(*patch.Priority)),
			}
			ticket.Priority = *patch.Priority
		}
	}
	return diff, nil
}

func optionalString(s string) domain.Value {
	if s == "" {
		return domain.NullValue()
	}
	return domain.StringValue(s)
}

func validateID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errorutil.NewValidationError("malformed identifier", map[string]any{"field": field})
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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
