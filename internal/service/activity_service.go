package service

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// DefaultActivityLimit bounds activity listings when the caller does not ask
// for a specific page size.
const DefaultActivityLimit = 50

// ActivityService reads and appends the audit ledger.
type ActivityService struct {
	activity repository.ActivityRepository
	resolver *ActorResolver
}

// NewActivityService constructs the service.
func NewActivityService(activity repository.ActivityRepository, resolver *ActorResolver) *ActivityService {
	return &ActivityService{activity: activity, resolver: resolver}
}

// Append inserts one entry. The diff, when present, is computed by the
// caller before this point; the ledger itself never reads back rows.
func (s *ActivityService) Append(ctx context.Context, orgID, ticketID string, actorProfileID *string, eventType domain.ActivityEventType, summary string, diff domain.Diff) error {
	if err := validateID("org_id", orgID); err != nil {
		return err
	}
	if summary == "" {
		return errorutil.NewValidationError("summary is required", nil)
	}
	entry := &domain.ActivityEntry{
		OrgID:          orgID,
		TicketID:       ticketID,
		ActorProfileID: actorProfileID,
		EventType:      eventType,
		Summary:        summary,
		Diff:           diff,
	}
	return s.activity.Append(ctx, entry)
}

// List returns entries newest-first with actors resolved in one batched
// lookup. Unresolvable actors come back nil; a failed lookup degrades to a
// warning rather than failing the list.
func (s *ActivityService) List(ctx context.Context, orgID, ticketID string, limit int) ([]domain.ActivityWithActor, []string, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	entries, err := s.activity.ListByTicket(ctx, orgID, ticketID, limit)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.ActorProfileID != nil {
			ids = append(ids, *entry.ActorProfileID)
		}
	}

	var warnings []string
	profiles, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		warnings = append(warnings, "actor resolution failed: "+err.Error())
		profiles = nil
	}

	result := make([]domain.ActivityWithActor, 0, len(entries))
	for _, entry := range entries {
		decorated := domain.ActivityWithActor{ActivityEntry: entry}
		if entry.ActorProfileID != nil {
			if profile, ok := profiles[*entry.ActorProfileID]; ok {
				p := profile
				decorated.Actor = &p
			}
		}
		result = append(result, decorated)
	}
	return result, warnings, nil
}
