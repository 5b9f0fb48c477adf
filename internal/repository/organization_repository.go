package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// OrganizationRepository reads tenants for the admin surface. Organizations
// are provisioned out of band; this service never writes them.
type OrganizationRepository interface {
	List(ctx context.Context, limit int) ([]domain.Organization, error)
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

type organizationRepository struct {
	db Pool
}

// NewOrganizationRepository builds repository.
func NewOrganizationRepository(db Pool) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) List(ctx context.Context, limit int) ([]domain.Organization, error) {
	const query = `SELECT id, name, created_at FROM organizations ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	defer rows.Close()

	var result []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.CreatedAt); err != nil {
			return nil, errorutil.NewBackendError(err)
		}
		result = append(result, org)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return result, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `SELECT id, name, created_at FROM organizations WHERE id=$1`
	var org domain.Organization
	err := r.db.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewNotFound("organization", map[string]any{"org_id": id})
	}
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return &org, nil
}
