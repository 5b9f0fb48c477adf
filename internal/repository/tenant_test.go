package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantQueryRequiresOrg(t *testing.T) {
	_, _, err := TenantQuery{
		Table:   "tickets",
		Columns: []string{"id"},
	}.SQL()
	assert.Error(t, err)

	_, _, err = TenantQuery{
		OrgID:   "   ",
		Table:   "tickets",
		Columns: []string{"id"},
	}.SQL()
	assert.Error(t, err)
}

func TestTenantQueryBindsOrgFirst(t *testing.T) {
	sql, args, err := TenantQuery{
		OrgID:   "org-1",
		Table:   "tickets",
		Columns: []string{"id", "subject"},
		Filters: []Filter{Eq("status", "open")},
	}.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE org_id=$1 AND status=$2")
	require.Len(t, args, 2)
	assert.Equal(t, "org-1", args[0])
	assert.Equal(t, "open", args[1])
}

func TestTenantQueryLimitClamp(t *testing.T) {
	sql, _, err := TenantQuery{
		OrgID:   "org-1",
		Table:   "tickets",
		Columns: []string{"id"},
	}.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 100")

	sql, _, err = TenantQuery{
		OrgID:   "org-1",
		Table:   "tickets",
		Columns: []string{"id"},
		Limit:   9999,
	}.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 500")

	assert.Equal(t, DefaultListLimit, ClampLimit(0))
	assert.Equal(t, DefaultListLimit, ClampLimit(-5))
	assert.Equal(t, 42, ClampLimit(42))
	assert.Equal(t, MaxListLimit, ClampLimit(501))
}

func TestTenantQueryOrderingAndOffset(t *testing.T) {
	sql, _, err := TenantQuery{
		OrgID:      "org-1",
		Table:      "ticket_activity",
		Columns:    []string{"id"},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      50,
		Offset:     100,
	}.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 50 OFFSET 100")
}

func TestTenantQueryRejectsUnknownOp(t *testing.T) {
	_, _, err := TenantQuery{
		OrgID:   "org-1",
		Table:   "tickets",
		Columns: []string{"id"},
		Filters: []Filter{{Column: "subject", Op: "LIKE", Value: "%x%"}},
	}.SQL()
	assert.Error(t, err)
}

func TestTenantQueryRangeFilters(t *testing.T) {
	sql, args, err := TenantQuery{
		OrgID:   "org-1",
		Table:   "calls",
		Columns: []string{"id"},
		Filters: []Filter{Gte("created_at", "2026-01-01"), Lte("created_at", "2026-02-01")},
	}.SQL()
	require.NoError(t, err)
	assert.Contains(t, sql, "created_at>=$2")
	assert.Contains(t, sql, "created_at<=$3")
	assert.Len(t, args, 3)
}
