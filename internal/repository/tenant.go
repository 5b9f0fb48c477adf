package repository

import (
	"fmt"
	"strings"
)

// Limit policy for tenant-scoped list queries.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Filter is a single predicate in a tenant query.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// Eq builds an equality predicate.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: "=", Value: value}
}

// Gte builds a greater-or-equal predicate.
func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: ">=", Value: value}
}

// Lte builds a less-or-equal predicate.
func Lte(column string, value any) Filter {
	return Filter{Column: column, Op: "<=", Value: value}
}

// TenantQuery builds a SELECT bound to one organization. org_id is always the
// first predicate; there is no way to construct a cross-tenant query through
// it.
type TenantQuery struct {
	OrgID      string
	Table      string
	Columns    []string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

// ClampLimit applies the server-side limit policy.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// SQL renders the query and its args. The org filter is mandatory.
func (q TenantQuery) SQL() (string, []any, error) {
	if strings.TrimSpace(q.OrgID) == "" {
		return "", nil, fmt.Errorf("tenant query requires an organization id")
	}
	if q.Table == "" {
		return "", nil, fmt.Errorf("tenant query requires a table")
	}
	if len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("tenant query requires columns")
	}

	args := []any{q.OrgID}
	clauses := []string{"org_id=$1"}
	for _, f := range q.Filters {
		switch f.Op {
		case "=", ">=", "<=":
		default:
			return "", nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
		args = append(args, f.Value)
		clauses = append(clauses, fmt.Sprintf("%s%s$%d", f.Column, f.Op, len(args)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s",
		strings.Join(q.Columns, ", "), q.Table, strings.Join(clauses, " AND "))

	if q.OrderBy != "" {
		fmt.Fprintf(&sb, " ORDER BY %s", q.OrderBy)
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}

	fmt.Fprintf(&sb, " LIMIT %d", ClampLimit(q.Limit))
	if q.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.Offset)
	}
	return sb.String(), args, nil
}
