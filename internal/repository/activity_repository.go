package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// ActivityRepository stores the append-only audit ledger. There is no update
// or delete path, by construction.
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityEntry) error
	ListByTicket(ctx context.Context, orgID, ticketID string, limit int) ([]domain.ActivityEntry, error)
}

type activityRepository struct {
	db Pool
}

// NewActivityRepository builds the repository.
func NewActivityRepository(db Pool) ActivityRepository {
	return &activityRepository{db: db}
}

// Append inserts one entry. Pure insert, no read-modify-write; the diff is
// computed by the caller.
func (r *activityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	if err := insertActivity(ctx, r.db, entry); err != nil {
		return errorutil.NewBackendError(err)
	}
	return nil
}

func insertActivity(ctx context.Context, db DBTX, entry *domain.ActivityEntry) error {
	const query = `
        INSERT INTO ticket_activity (org_id, ticket_id, actor_profile_id, event_type, summary, diff)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	var diffJSON []byte
	if entry.Diff != nil {
		encoded, err := json.Marshal(entry.Diff)
		if err != nil {
			return fmt.Errorf("encode diff: %w", err)
		}
		diffJSON = encoded
	}

	return db.QueryRow(ctx, query,
		entry.OrgID,
		entry.TicketID,
		entry.ActorProfileID,
		entry.EventType,
		entry.Summary,
		diffJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityRepository) ListByTicket(ctx context.Context, orgID, ticketID string, limit int) ([]domain.ActivityEntry, error) {
	query, args, err := TenantQuery{
		OrgID:      orgID,
		Table:      "ticket_activity",
		Columns:    []string{"id", "org_id", "ticket_id", "actor_profile_id", "event_type", "summary", "diff", "created_at"},
		Filters:    []Filter{Eq("ticket_id", ticketID)},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	}.SQL()
	if err != nil {
		return nil, errorutil.NewValidationError(err.Error(), nil)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	defer rows.Close()

	var result []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		var diffJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.OrgID,
			&entry.TicketID,
			&entry.ActorProfileID,
			&entry.EventType,
			&entry.Summary,
			&diffJSON,
			&entry.CreatedAt,
		); err != nil {
			return nil, errorutil.NewBackendError(err)
		}
		if len(diffJSON) > 0 {
			diff := domain.Diff{}
			if err := json.Unmarshal(diffJSON, &diff); err != nil {
				return nil, errorutil.NewBackendError(fmt.Errorf("decode diff for entry %s: %w", entry.ID, err))
			}
			entry.Diff = diff
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return result, nil
}
