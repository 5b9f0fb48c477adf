package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

type fakeCallRepo struct {
	records  []domain.CallRecord
	warnings []string
	err      error
	calls    int
}

func (f *fakeCallRepo) ListWindow(ctx context.Context, orgID string, window domain.CallWindow) ([]domain.CallRecord, []string, error) {
	f.calls++
	return f.records, f.warnings, f.err
}

func TestAggregateByAgent(t *testing.T) {
	records := []domain.CallRecord{
		{AgentName: "Alice", DurationSeconds: 60, CostUSD: 1.0},
		{AgentName: "Alice", DurationSeconds: 120, CostUSD: 2.0},
		{AgentName: "Bob", DurationSeconds: 30, CostUSD: 0.5},
	}

	summaries := AggregateByAgent(records)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Alice", summaries[0].AgentName)
	assert.Equal(t, 2, summaries[0].Calls)
	assert.InDelta(t, 90.0, summaries[0].AvgDuration, 1e-9)
	assert.InDelta(t, 3.0, summaries[0].Cost, 1e-9)

	assert.Equal(t, "Bob", summaries[1].AgentName)
	assert.Equal(t, 1, summaries[1].Calls)
	assert.InDelta(t, 30.0, summaries[1].AvgDuration, 1e-9)
	assert.InDelta(t, 0.5, summaries[1].Cost, 1e-9)
}

func TestAggregateByAgentEmpty(t *testing.T) {
	assert.Empty(t, AggregateByAgent(nil))
}

func TestOutcomeBreakdown(t *testing.T) {
	records := []domain.CallRecord{
		{Outcome: "answered"},
		{Outcome: "answered"},
		{Outcome: "answered"},
		{Outcome: "voicemail"},
	}

	breakdown := OutcomeBreakdown(records)
	require.Len(t, breakdown, 2)

	assert.Equal(t, "answered", breakdown[0].Outcome)
	assert.Equal(t, 3, breakdown[0].Calls)
	assert.InDelta(t, 75.0, breakdown[0].Percentage, 1e-9)

	assert.Equal(t, "voicemail", breakdown[1].Outcome)
	assert.InDelta(t, 25.0, breakdown[1].Percentage, 1e-9)

	total := 0.0
	for _, row := range breakdown {
		total += row.Percentage
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestOutcomeBreakdownEmptyWindow(t *testing.T) {
	assert.Empty(t, OutcomeBreakdown(nil))
}

func TestAnalyticsByAgentCacheMissThenStore(t *testing.T) {
	orgID := uuid.NewString()
	repo := &fakeCallRepo{records: []domain.CallRecord{
		{AgentName: "Alice", DurationSeconds: 60, CostUSD: 1.0},
	}}
	cache, mock := redismock.NewClientMock()
	svc := NewAnalyticsService(repo, cache, time.Minute, nil)

	key := "analytics:" + orgID + ":agents:::"
	expected, err := json.Marshal(AggregateByAgent(repo.records))
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, expected, time.Minute).SetVal("OK")

	summaries, warnings, err := svc.ByAgent(context.Background(), orgID, domain.CallWindow{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsByAgentCacheHitSkipsRepo(t *testing.T) {
	orgID := uuid.NewString()
	repo := &fakeCallRepo{}
	cache, mock := redismock.NewClientMock()
	svc := NewAnalyticsService(repo, cache, time.Minute, nil)

	cached := []domain.AgentSummary{{AgentName: "Alice", Calls: 2, AvgDuration: 90, Cost: 3}}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet("analytics:" + orgID + ":agents:::").SetVal(string(raw))

	summaries, warnings, err := svc.ByAgent(context.Background(), orgID, domain.CallWindow{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, cached, summaries)
	assert.Equal(t, 0, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsWarningsBypassCache(t *testing.T) {
	orgID := uuid.NewString()
	repo := &fakeCallRepo{
		records:  []domain.CallRecord{{Outcome: "answered"}},
		warnings: []string{"agent_id lookup failed: timeout"},
	}
	cache, mock := redismock.NewClientMock()
	svc := NewAnalyticsService(repo, cache, time.Minute, nil)

	mock.ExpectGet("analytics:" + orgID + ":outcomes:::").RedisNil()

	breakdown, warnings, err := svc.Outcomes(context.Background(), orgID, domain.CallWindow{})
	require.NoError(t, err)
	require.Len(t, breakdown, 1)
	assert.Equal(t, repo.warnings, warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepoErrorPropagates(t *testing.T) {
	orgID := uuid.NewString()
	repo := &fakeCallRepo{err: errors.New("all 2 call lookups failed")}
	svc := NewAnalyticsService(repo, nil, 0, nil)

	_, _, err := svc.ByAgent(context.Background(), orgID, domain.CallWindow{})
	assert.Error(t, err)
}

func TestAnalyticsRejectsBadOrgID(t *testing.T) {
	svc := NewAnalyticsService(&fakeCallRepo{}, nil, 0, nil)
	_, _, err := svc.ByAgent(context.Background(), "not-a-uuid", domain.CallWindow{})
	assertValidation(t, err)
}
