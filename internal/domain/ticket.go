package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known ticket priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Tickets are never
// hard-deleted; every mutation through the store is mirrored by exactly one
// activity entry.
type Ticket struct {
	ID          string
	OrgID       string
	LeadID      *string
	Subject     string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketPatch carries the fields of a partial ticket update. A nil field is
// left untouched.
type TicketPatch struct {
	Subject     *string
	Description *string
	Status      *TicketStatus
	Priority    *TicketPriority
}

// Empty reports whether the patch carries no fields at all.
func (p TicketPatch) Empty() bool {
	return p.Subject == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}
