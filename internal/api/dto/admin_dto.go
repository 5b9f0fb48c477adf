package dto

import "time"

// OrganizationResponse response.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricsResponse exposes the in-memory counters on the admin surface.
type MetricsResponse struct {
	Requests map[string]int64 `json:"requests"`
	Errors   map[string]int64 `json:"errors"`
}
