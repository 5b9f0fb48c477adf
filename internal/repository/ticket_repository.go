package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketRepository encapsulates ticket persistence. Every mutation takes the
// activity entry it must land together with: a ticket write is never durable
// without its audit trace.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error
	Update(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Ticket, error)
	List(ctx context.Context, orgID string, status *domain.TicketStatus, limit int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Pool) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error {
	return writeWithAudit(ctx, r.db, func(db DBTX) error {
		const query = `
            INSERT INTO tickets (org_id, lead_id, subject, description, status, priority)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id, created_at, updated_at`
		err := db.QueryRow(ctx, query,
			ticket.OrgID,
			ticket.LeadID,
			ticket.Subject,
			ticket.Description,
			ticket.Status,
			ticket.Priority,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
		if err != nil {
			return errorutil.NewBackendError(err)
		}
		entry.TicketID = ticket.ID
		return nil
	}, entry)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error {
	return writeWithAudit(ctx, r.db, func(db DBTX) error {
		const query = `
            UPDATE tickets SET subject=$1, description=$2, status=$3, priority=$4, updated_at=NOW()
            WHERE id=$5 AND org_id=$6
            RETURNING updated_at`
		err := db.QueryRow(ctx, query,
			ticket.Subject,
			ticket.Description,
			ticket.Status,
			ticket.Priority,
			ticket.ID,
			ticket.OrgID,
		).Scan(&ticket.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
		}
		if err != nil {
			return errorutil.NewBackendError(err)
		}
		return nil
	}, entry)
}

func (r *ticketRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, org_id, lead_id, subject, description, status, priority, created_at, updated_at
        FROM tickets WHERE id=$1 AND org_id=$2`
	var ticket domain.Ticket
	err := r.db.QueryRow(ctx, query, id, orgID).Scan(
		&ticket.ID,
		&ticket.OrgID,
		&ticket.LeadID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, orgID string, status *domain.TicketStatus, limit int) ([]domain.Ticket, error) {
	q := TenantQuery{
		OrgID:      orgID,
		Table:      "tickets",
		Columns:    []string{"id", "org_id", "lead_id", "subject", "description", "status", "priority", "created_at", "updated_at"},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	}
	if status != nil {
		q.Filters = append(q.Filters, Eq("status", *status))
	}
	query, args, err := q.SQL()
	if err != nil {
		return nil, errorutil.NewValidationError(err.Error(), nil)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OrgID,
			&ticket.LeadID,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, errorutil.NewBackendError(err)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return result, nil
}
