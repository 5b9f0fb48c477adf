package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

type fakeActivityRepo struct {
	entries   []domain.ActivityEntry
	lastLimit int
}

func (f *fakeActivityRepo) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	entry.ID = uuid.NewString()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListByTicket(ctx context.Context, orgID, ticketID string, limit int) ([]domain.ActivityEntry, error) {
	f.lastLimit = limit
	var result []domain.ActivityEntry
	for _, entry := range f.entries {
		if entry.OrgID == orgID && entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func TestActivityAppendValidation(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityService(repo, NewActorResolver(&fakeProfileRepo{}))
	orgID := uuid.NewString()

	err := svc.Append(context.Background(), orgID, uuid.NewString(), nil, domain.EventTicketUpdated, "", nil)
	assertValidation(t, err)

	err = svc.Append(context.Background(), "bad", uuid.NewString(), nil, domain.EventTicketUpdated, "updated status", nil)
	assertValidation(t, err)

	assert.Empty(t, repo.entries)
}

func TestActivityListDefaultLimitAndActors(t *testing.T) {
	repo := &fakeActivityRepo{}
	actor := uuid.NewString()
	name := "Dana Ops"
	profiles := &fakeProfileRepo{profiles: map[string]domain.Profile{
		actor: {ID: actor, FullName: &name},
	}}
	svc := NewActivityService(repo, NewActorResolver(profiles))
	orgID := uuid.NewString()
	ticketID := uuid.NewString()

	require.NoError(t, svc.Append(context.Background(), orgID, ticketID, &actor, domain.EventTicketCreated, "ticket created", nil))
	require.NoError(t, svc.Append(context.Background(), orgID, ticketID, nil, domain.EventTicketUpdated, "updated status", domain.Diff{
		"status": {Before: domain.StringValue("open"), After: domain.StringValue("closed")},
	}))

	result, warnings, err := svc.List(context.Background(), orgID, ticketID, 0)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, DefaultActivityLimit, repo.lastLimit)
	require.Len(t, result, 2)

	require.NotNil(t, result[0].Actor)
	assert.Equal(t, "Dana Ops", *result[0].Actor.FullName)
	assert.Nil(t, result[1].Actor)
	assert.Equal(t, 1, profiles.calls)
}

func TestActivityListResolverFailureDegradesToWarning(t *testing.T) {
	repo := &fakeActivityRepo{}
	actor := uuid.NewString()
	profiles := &fakeProfileRepo{err: assert.AnError}
	svc := NewActivityService(repo, NewActorResolver(profiles))
	orgID := uuid.NewString()
	ticketID := uuid.NewString()

	require.NoError(t, svc.Append(context.Background(), orgID, ticketID, &actor, domain.EventCommentAdded, "comment added", nil))

	result, warnings, err := svc.List(context.Background(), orgID, ticketID, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Actor)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "actor resolution failed")
}
