package service

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// ActorResolver resolves human identity for sets of actor ids. It issues at
// most one batched lookup per call regardless of how many ledger rows are
// being decorated; callers pre-collect the full id set before invoking it.
type ActorResolver struct {
	profiles repository.ProfileRepository
}

// NewActorResolver constructs the resolver.
func NewActorResolver(profiles repository.ProfileRepository) *ActorResolver {
	return &ActorResolver{profiles: profiles}
}

// Resolve returns profiles indexed by id. Ids not found in the backing store
// are simply absent from the map; callers treat absence as a nil author,
// never as an error.
func (r *ActorResolver) Resolve(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return map[string]domain.Profile{}, nil
	}

	profiles, err := r.profiles.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	result := make(map[string]domain.Profile, len(profiles))
	for _, profile := range profiles {
		result[profile.ID] = profile
	}
	return result, nil
}
