package domain

import "time"

// Organization is the tenant boundary. Every other entity carries its id and
// no query may cross it. Organizations are provisioned out of band and are
// read-only from this service's perspective.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
