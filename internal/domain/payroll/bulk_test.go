package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/audit"
)

func newBulkService(trail audit.Trail) (*Service, *MemoryRecordStore) {
	directory := stubDirectory{
		"emp-1": {ID: "emp-1", SalaryType: SalaryDaily, DailySalary: decimal.NewFromInt(300)},
		"emp-2": {ID: "emp-2", SalaryType: SalaryDaily, DailySalary: decimal.NewFromInt(400)},
		"emp-3": {ID: "emp-3", SalaryType: SalaryHourly, HourlyRate: decimal.NewFromInt(50)},
	}
	attendance := stubAttendance{
		"emp-1": {WorkedDays: 5, RegularHours: decimal.NewFromInt(40)},
		"emp-2": {WorkedDays: 5, OvertimeHours: decimal.NewFromInt(-4)},
		"emp-3": {WorkedDays: 5, RegularHours: decimal.NewFromInt(40)},
	}
	records := NewMemoryRecordStore()
	return NewService(records, adjustment.NewMemoryLedger(), trail, directory, attendance), records
}

func bulkWeek(t *testing.T) WeekRange {
	t.Helper()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	week, err := NewWeekRange(start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	return week
}

func TestBulkRunContinuesPastFailures(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, records := newBulkService(trail)
	processor := NewBulkProcessor(svc, 1)

	week := bulkWeek(t)
	result, err := processor.Run(context.Background(), "tester", []string{"emp-1", "emp-2", "emp-3"}, week, DefaultRates(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Completed)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "emp-2", result.Errors[0].EmployeeID)
	assert.Contains(t, result.Errors[0].Error, ErrInvalidAttendance.Error())

	// The failure is isolated; the other two records land with full values.
	assert.Equal(t, 2, records.Len())
	first, err := records.Get(context.Background(), "emp-1", week.Start)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", first.NetPay.StringFixed(2))
	third, err := records.Get(context.Background(), "emp-3", week.Start)
	require.NoError(t, err)
	assert.Equal(t, "2000.00", third.NetPay.StringFixed(2))
	_, err = records.Get(context.Background(), "emp-2", week.Start)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestBulkRunAppendsSummaryEntryLast(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _ := newBulkService(trail)
	processor := NewBulkProcessor(svc, 1)

	_, err := processor.Run(context.Background(), "tester", []string{"emp-1", "emp-3"}, bulkWeek(t), DefaultRates(), nil)
	require.NoError(t, err)

	entries := trail.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, audit.ActionCalculatePayroll, entries[0].Action)
	assert.Equal(t, audit.ActionCalculatePayroll, entries[1].Action)
	assert.Equal(t, audit.ActionBulkCalculate, entries[2].Action)
	assert.Equal(t, "2 employees", entries[2].EmployeeRef)
	// 1500 + 2000
	assert.Equal(t, "3500.00", entries[2].Amount.StringFixed(2))
}

func TestBulkRunReportsProgress(t *testing.T) {
	svc, _ := newBulkService(audit.NewMemoryTrail())
	processor := NewBulkProcessor(svc, 1)

	var snapshots []Progress
	_, err := processor.Run(context.Background(), "tester", []string{"emp-1", "emp-2", "emp-3"}, bulkWeek(t), DefaultRates(), func(p Progress) {
		snapshots = append(snapshots, p)
	})
	require.NoError(t, err)

	require.Len(t, snapshots, 3)
	for i, snap := range snapshots {
		assert.Equal(t, 3, snap.Total)
		assert.Equal(t, i+1, snap.Completed)
	}
}

func TestBulkRunConcurrentPool(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _ := newBulkService(trail)
	processor := NewBulkProcessor(svc, 4)

	result, err := processor.Run(context.Background(), "tester", []string{"emp-1", "emp-2", "emp-3"}, bulkWeek(t), DefaultRates(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Completed)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "emp-2", result.Errors[0].EmployeeID)

	// Last trail entry is always the batch summary.
	entries := trail.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.ActionBulkCalculate, entries[len(entries)-1].Action)
}

func TestBulkRunHonorsCancellation(t *testing.T) {
	svc, _ := newBulkService(audit.NewMemoryTrail())
	processor := NewBulkProcessor(svc, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := processor.Run(ctx, "tester", []string{"emp-1", "emp-2", "emp-3"}, bulkWeek(t), DefaultRates(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Completed)
}
