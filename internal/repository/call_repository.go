package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CallRepository reads raw call records for analytics windows. Agent-scoped
// lookups run an ordered strategy chain: the agent id is tried first, the
// agent name second; the first non-empty, non-error result wins and earlier
// failures are retained as warnings.
type CallRepository interface {
	ListWindow(ctx context.Context, orgID string, window domain.CallWindow) ([]domain.CallRecord, []string, error)
}

type callRepository struct {
	db Pool
}

// NewCallRepository builds repository.
func NewCallRepository(db Pool) CallRepository {
	return &callRepository{db: db}
}

type callLookup struct {
	name    string
	filters []Filter
}

func (r *callRepository) ListWindow(ctx context.Context, orgID string, window domain.CallWindow) ([]domain.CallRecord, []string, error) {
	var base []Filter
	if window.From != nil {
		base = append(base, Gte("created_at", *window.From))
	}
	if window.To != nil {
		base = append(base, Lte("created_at", *window.To))
	}

	var strategies []callLookup
	if window.AgentID != nil {
		strategies = append(strategies, callLookup{
			name:    "agent_id",
			filters: append(append([]Filter{}, base...), Eq("agent_id", *window.AgentID)),
		})
	}
	if window.AgentName != nil {
		strategies = append(strategies, callLookup{
			name:    "agent_name",
			filters: append(append([]Filter{}, base...), Eq("agent_name", *window.AgentName)),
		})
	}
	if len(strategies) == 0 {
		strategies = append(strategies, callLookup{name: "window", filters: base})
	}

	var warnings []string
	var failures int
	for _, strategy := range strategies {
		records, err := r.query(ctx, orgID, strategy.filters)
		if err != nil {
			failures++
			warnings = append(warnings, fmt.Sprintf("%s lookup failed: %v", strategy.name, err))
			continue
		}
		if len(records) > 0 {
			return records, warnings, nil
		}
	}
	if failures == len(strategies) {
		return nil, warnings, errorutil.NewBackendError(fmt.Errorf("all %d call lookups failed", failures))
	}
	return []domain.CallRecord{}, warnings, nil
}

func (r *callRepository) query(ctx context.Context, orgID string, filters []Filter) ([]domain.CallRecord, error) {
	query, args, err := TenantQuery{
		OrgID:      orgID,
		Table:      "calls",
		Columns:    []string{"id", "org_id", "agent_id", "agent_name", "duration_seconds", "cost_usd", "outcome", "created_at"},
		Filters:    filters,
		OrderBy:    "created_at",
		Descending: true,
		Limit:      MaxListLimit,
	}.SQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CallRecord
	for rows.Next() {
		var record domain.CallRecord
		if err := rows.Scan(
			&record.ID,
			&record.OrgID,
			&record.AgentID,
			&record.AgentName,
			&record.DurationSeconds,
			&record.CostUSD,
			&record.Outcome,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
