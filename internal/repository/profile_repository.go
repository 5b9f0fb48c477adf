package repository

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// ProfileRepository reads actor identities owned by the external identity
// system. Lookups are always batched: one query regardless of how many ids
// are requested.
type ProfileRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}

type profileRepository struct {
	db Pool
}

// NewProfileRepository builds repository.
func NewProfileRepository(db Pool) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, full_name, email FROM profiles WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	defer rows.Close()

	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.Email); err != nil {
			return nil, errorutil.NewBackendError(err)
		}
		result = append(result, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, errorutil.NewBackendError(err)
	}
	return result, nil
}
