package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// AggregateByAgent groups a window of calls by agent name. Output is sorted
// by agent name; an empty input yields an empty list.
func AggregateByAgent(records []domain.CallRecord) []domain.AgentSummary {
	type bucket struct {
		calls    int
		duration float64
		cost     float64
	}
	buckets := map[string]*bucket{}
	for _, record := range records {
		b, ok := buckets[record.AgentName]
		if !ok {
			b = &bucket{}
			buckets[record.AgentName] = b
		}
		b.calls++
		b.duration += record.DurationSeconds
		b.cost += record.CostUSD
	}

	result := make([]domain.AgentSummary, 0, len(buckets))
	for name, b := range buckets {
		result = append(result, domain.AgentSummary{
			AgentName:   name,
			Calls:       b.calls,
			AvgDuration: b.duration / float64(b.calls),
			Cost:        b.cost,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AgentName < result[j].AgentName })
	return result
}

// OutcomeBreakdown groups a window of calls by outcome, with each percentage
// computed against the full window total. A zero total yields an empty list
// rather than a division by zero.
func OutcomeBreakdown(records []domain.CallRecord) []domain.OutcomeSummary {
	total := len(records)
	if total == 0 {
		return []domain.OutcomeSummary{}
	}

	counts := map[string]int{}
	for _, record := range records {
		counts[record.Outcome]++
	}

	result := make([]domain.OutcomeSummary, 0, len(counts))
	for outcome, calls := range counts {
		result = append(result, domain.OutcomeSummary{
			Outcome:    outcome,
			Calls:      calls,
			Percentage: 100 * float64(calls) / float64(total),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Outcome < result[j].Outcome })
	return result
}

// AnalyticsService serves aggregated call statistics, caching window results
// in Redis. Cache failures degrade to direct queries and are never fatal.
type AnalyticsService struct {
	calls  repository.CallRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewAnalyticsService constructs the service. The cache client may be nil.
func NewAnalyticsService(calls repository.CallRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{calls: calls, cache: cache, ttl: ttl, logger: logger}
}

// ByAgent returns per-agent summaries for the window.
func (s *AnalyticsService) ByAgent(ctx context.Context, orgID string, window domain.CallWindow) ([]domain.AgentSummary, []string, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, nil, err
	}
	key := cacheKey("agents", orgID, window)
	var cached []domain.AgentSummary
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil, nil
	}

	records, warnings, err := s.calls.ListWindow(ctx, orgID, window)
	if err != nil {
		return nil, warnings, err
	}
	summaries := AggregateByAgent(records)
	if len(warnings) == 0 {
		s.cacheSet(ctx, key, summaries)
	}
	return summaries, warnings, nil
}

// Outcomes returns the outcome breakdown for the window.
func (s *AnalyticsService) Outcomes(ctx context.Context, orgID string, window domain.CallWindow) ([]domain.OutcomeSummary, []string, error) {
	if err := validateID("org_id", orgID); err != nil {
		return nil, nil, err
	}
	key := cacheKey("outcomes", orgID, window)
	var cached []domain.OutcomeSummary
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil, nil
	}

	records, warnings, err := s.calls.ListWindow(ctx, orgID, window)
	if err != nil {
		return nil, warnings, err
	}
	breakdown := OutcomeBreakdown(records)
	if len(warnings) == 0 {
		s.cacheSet(ctx, key, breakdown)
	}
	return breakdown, warnings, nil
}

func cacheKey(kind, orgID string, window domain.CallWindow) string {
	from, to := "", ""
	if window.From != nil {
		from = window.From.UTC().Format(time.RFC3339)
	}
	if window.To != nil {
		to = window.To.UTC().Format(time.RFC3339)
	}
	agent := ""
	if window.AgentID != nil {
		agent = "id:" + *window.AgentID
	} else if window.AgentName != nil {
		agent = "name:" + *window.AgentName
	}
	return fmt.Sprintf("analytics:%s:%s:%s:%s:%s", orgID, kind, from, to, agent)
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if s.logger != nil {
			s.logger.Warn("analytics cache decode failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
