package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	entries []*domain.ActivityEntry
	updates int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error {
	ticket.ID = uuid.NewString()
	entry.TicketID = ticket.ID
	stored := *ticket
	f.tickets[ticket.OrgID+"/"+ticket.ID] = &stored
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket, entry *domain.ActivityEntry) error {
	key := ticket.OrgID + "/" + ticket.ID
	if _, ok := f.tickets[key]; !ok {
		return errorutil.NewNotFound("ticket", nil)
	}
	stored := *ticket
	f.tickets[key] = &stored
	f.entries = append(f.entries, entry)
	f.updates++
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[orgID+"/"+id]
	if !ok {
		return nil, errorutil.NewNotFound("ticket", nil)
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, orgID string, status *domain.TicketStatus, limit int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for key, ticket := range f.tickets {
		if key[:len(orgID)] != orgID {
			continue
		}
		if status != nil && ticket.Status != *status {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func TestCreateTicketDefaultsAndAudit(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgID, TicketCreateInput{
		Subject:  "Billing issue",
		Priority: domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
	assert.Equal(t, orgID, ticket.OrgID)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, domain.EventTicketCreated, entry.EventType)
	assert.Equal(t, ticket.ID, entry.TicketID)
	assert.Equal(t, orgID, entry.OrgID)
	assert.Nil(t, entry.Diff)
}

func TestCreateTicketValidation(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	_, err := svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "   "})
	assertValidation(t, err)

	_, err = svc.Create(context.Background(), "not-a-uuid", TicketCreateInput{Subject: "x"})
	assertValidation(t, err)

	badLead := "nope"
	_, err = svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "x", LeadID: &badLead})
	assertValidation(t, err)

	_, err = svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "x", Priority: "critical"})
	assertValidation(t, err)

	assert.Empty(t, repo.entries)
}

func TestUpdateTicketDiffOnlyChangedFields(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgID, TicketCreateInput{
		Subject:  "Billing issue",
		Priority: domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	updated, err := svc.Update(context.Background(), orgID, ticket.ID, domain.TicketPatch{Status: &resolved}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	require.Len(t, repo.entries, 2)
	entry := repo.entries[1]
	assert.Equal(t, domain.EventTicketUpdated, entry.EventType)
	require.Len(t, entry.Diff, 1)
	change, ok := entry.Diff["status"]
	require.True(t, ok)
	assert.Equal(t, domain.StringValue("open"), change.Before)
	assert.Equal(t, domain.StringValue("resolved"), change.After)
}

func TestUpdateTicketNoopProducesNoActivity(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "Billing issue"})
	require.NoError(t, err)

	sameSubject := "Billing issue"
	samePriority := domain.TicketPriorityNormal
	result, err := svc.Update(context.Background(), orgID, ticket.ID, domain.TicketPatch{
		Subject:  &sameSubject,
		Priority: &samePriority,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, ticket.ID, result.ID)
	assert.Equal(t, 0, repo.updates)
	assert.Len(t, repo.entries, 1)
}

func TestUpdateTicketEmptyPatchIsNoop(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "Billing issue"})
	require.NoError(t, err)

	result, err := svc.Update(context.Background(), orgID, ticket.ID, domain.TicketPatch{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, result.ID)
	assert.Equal(t, 0, repo.updates)
}

func TestUpdateTicketValidation(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgID := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgID, TicketCreateInput{Subject: "Billing issue"})
	require.NoError(t, err)

	empty := "  "
	_, err = svc.Update(context.Background(), orgID, ticket.ID, domain.TicketPatch{Subject: &empty}, nil)
	assertValidation(t, err)

	bogus := domain.TicketStatus("archived")
	_, err = svc.Update(context.Background(), orgID, ticket.ID, domain.TicketPatch{Status: &bogus}, nil)
	assertValidation(t, err)

	assert.Equal(t, 0, repo.updates)
}

func TestUpdateTicketCrossTenantIsNotFound(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)
	orgA := uuid.NewString()
	orgB := uuid.NewString()

	ticket, err := svc.Create(context.Background(), orgA, TicketCreateInput{Subject: "Billing issue"})
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	_, err = svc.Update(context.Background(), orgB, ticket.ID, domain.TicketPatch{Status: &resolved}, nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorutil.ToDomainError(err).Code)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
}
