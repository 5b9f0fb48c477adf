package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CommentRepository stores the immutable comment ledger. Rows are never
// updated; deletion is a distinct operation that lands together with its own
// audit entry.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment, entry *domain.ActivityEntry) error
	ListByTicket(ctx context.Context, orgID, ticketID string, limit int) ([]domain.Comment, error)
	Delete(ctx context.Context, orgID, ticketID, commentID string, entry *domain.ActivityEntry) error
}

type commentRepository struct {
	db Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(db Pool) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment, entry *domain.ActivityEntry) error {
	return writeWithAudit(ctx, r.db, func(db DBTX) error {
		const query = `
            INSERT INTO ticket_comments (org_id, ticket_id, author_profile_id, body)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at`
		err := db.QueryRow(ctx, query,
			comment.OrgID,
			comment.TicketID,
			comment.AuthorProfileID,
			comment.Body,
		).Scan(&comment.ID, &comment.CreatedAt)
		if err != nil {
			return errorutil.NewBackendError(err)
		}
		return nil
	}, entry)
}

func (r *commentRepository) ListByTicket(ctx context.Context, orgID, ticketID string, limit int) ([]domain.Comment, error) {
	query, args, err := TenantQuery{
		OrgID:      orgID,
		Table:      "ticket_comments",
		Columns:    []string{"id", "org_id", "ticket_id", "author_profile_id", "body", "created_at"},
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

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.OrgID,
			&comment.TicketID,
			&comment.AuthorProfileID,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, errorutil.NewBackendError(err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return result, nil
}

func (r *commentRepository) Delete(ctx context.Context, orgID, ticketID, commentID string, entry *domain.ActivityEntry) error {
	return writeWithAudit(ctx, r.db, func(db DBTX) error {
		const query = `DELETE FROM ticket_comments WHERE id=$1 AND ticket_id=$2 AND org_id=$3 RETURNING id`
		var deleted string
		err := db.QueryRow(ctx, query, commentID, ticketID, orgID).Scan(&deleted)
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		if err != nil {
			return errorutil.NewBackendError(err)
		}
		return nil
	}, entry)
}
