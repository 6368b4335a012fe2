package audit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTrail(t *testing.T) *MemoryTrail {
	t.Helper()
	trail := NewMemoryTrail()
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Action: ActionCalculatePayroll, EmployeeRef: "emp-1", Amount: decimal.NewFromInt(1500), User: "alex", Timestamp: base},
		{Action: ActionCalculatePayroll, EmployeeRef: "emp-2", Amount: decimal.NewFromInt(2000), User: "alex", Timestamp: base.Add(time.Minute)},
		{Action: ActionProcessPayroll, EmployeeRef: "emp-1", Amount: decimal.NewFromInt(1500), User: "sam", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, trail.Append(ctx, entry))
	}
	return trail
}

func TestQueryFiltersByAction(t *testing.T) {
	trail := seedTrail(t)
	entries, err := trail.Query(context.Background(), Filter{Action: ActionCalculatePayroll, Ascending: true})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "emp-1", entries[0].EmployeeRef)
	assert.Equal(t, "emp-2", entries[1].EmployeeRef)
}

func TestQueryFiltersByEmployeeAndRange(t *testing.T) {
	trail := seedTrail(t)
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	entries, err := trail.Query(context.Background(), Filter{EmployeeRef: "emp-1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = trail.Query(context.Background(), Filter{From: base.Add(30 * time.Second)})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = trail.Query(context.Background(), Filter{To: base.Add(30 * time.Second)})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestQueryDefaultsToNewestFirst(t *testing.T) {
	trail := seedTrail(t)
	entries, err := trail.Query(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ActionProcessPayroll, entries[0].Action)
}

func TestAppendAssignsDefaults(t *testing.T) {
	trail := NewMemoryTrail()
	require.NoError(t, trail.Append(context.Background(), Entry{Action: ActionExport, User: "alex"}))

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestSummarize(t *testing.T) {
	trail := seedTrail(t)
	entries, err := trail.Query(context.Background(), Filter{})
	require.NoError(t, err)

	summary := Summarize(entries)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "5000.00", summary.TotalAmount.StringFixed(2))
	assert.Equal(t, 2, summary.UniqueEmployees)
	assert.Equal(t, 2, summary.UniqueUsers)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Count)
	assert.True(t, summary.TotalAmount.IsZero())
}
