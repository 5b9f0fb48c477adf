package domain

import "time"

// CallRecord is a raw voice-call data point scoped to an organization.
type CallRecord struct {
	ID              string
	OrgID           string
	AgentID         *string
	AgentName       string
	DurationSeconds float64
	CostUSD         float64
	Outcome         string
	CreatedAt       time.Time
}

// AgentSummary aggregates a window of calls for one agent.
type AgentSummary struct {
	AgentName   string  `json:"agent_name"`
	Calls       int     `json:"calls"`
	AvgDuration float64 `json:"avg_duration"`
	Cost        float64 `json:"cost"`
}

// OutcomeSummary aggregates a window of calls by outcome. Percentage is
// computed against the full window total.
type OutcomeSummary struct {
	Outcome    string  `json:"outcome"`
	Calls      int     `json:"calls"`
	Percentage float64 `json:"percentage"`
}

// CallWindow bounds an analytics query in time, with optional agent scoping.
type CallWindow struct {
	From      *time.Time
	To        *time.Time
	AgentID   *string
	AgentName *string
}
