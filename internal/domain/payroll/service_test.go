package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/audit"
)

type stubDirectory map[string]Employee

func (d stubDirectory) Get(_ context.Context, id string) (Employee, error) {
	emp, ok := d[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

type stubAttendance map[string]AttendanceTotals

func (a stubAttendance) TotalsFor(_ context.Context, employeeID string, _ WeekRange) (AttendanceTotals, error) {
	return a[employeeID], nil
}

type failingTrail struct{}

func (failingTrail) Append(context.Context, audit.Entry) error {
	return errors.New("trail unavailable")
}

func (failingTrail) Query(context.Context, audit.Filter) ([]audit.Entry, error) {
	return nil, nil
}

func newTestService(trail audit.Trail) (*Service, *MemoryRecordStore, *adjustment.MemoryLedger) {
	records := NewMemoryRecordStore()
	ledger := adjustment.NewMemoryLedger()
	directory := stubDirectory{
		"emp-1": {ID: "emp-1", SalaryType: SalaryDaily, DailySalary: decimal.NewFromInt(300)},
	}
	attendance := stubAttendance{
		"emp-1": {WorkedDays: 5, RegularHours: decimal.NewFromInt(40), OvertimeHours: decimal.NewFromInt(8)},
	}
	return NewService(records, ledger, trail, directory, attendance), records, ledger
}

func serviceWeek(t *testing.T) WeekRange {
	t.Helper()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	week, err := NewWeekRange(start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	return week
}

func TestCalculateForEmployeeFoldsAdjustments(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _, ledger := newTestService(trail)
	week := serviceWeek(t)
	ctx := context.Background()

	_, err := ledger.Add(ctx, adjustment.Adjustment{
		EmployeeID:  "emp-1",
		WeekStart:   week.Start,
		Type:        adjustment.TypeBonus,
		Category:    adjustment.CategoryPerformance,
		Amount:      decimal.NewFromInt(200),
		Description: "quarterly target met",
	})
	require.NoError(t, err)
	_, err = ledger.Add(ctx, adjustment.Adjustment{
		EmployeeID:  "emp-1",
		WeekStart:   week.Start,
		Type:        adjustment.TypeDeduction,
		Category:    adjustment.CategoryAdvance,
		Amount:      decimal.NewFromInt(50),
		Description: "salary advance",
	})
	require.NoError(t, err)

	record, err := svc.CalculateForEmployee(ctx, "tester", "emp-1", week, DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, "1500.00", record.BasePay.StringFixed(2))
	assert.Equal(t, "450.00", record.OvertimePay.StringFixed(2))
	assert.Equal(t, "200.00", record.Bonuses.StringFixed(2))
	assert.Equal(t, "50.00", record.Deductions.StringFixed(2))
	assert.Equal(t, "2150.00", record.GrossPay.StringFixed(2))
	assert.Equal(t, "2100.00", record.NetPay.StringFixed(2))

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCalculatePayroll, entries[0].Action)
	assert.Equal(t, "emp-1", entries[0].EmployeeRef)
	assert.Equal(t, "tester", entries[0].User)
}

func TestCalculateForEmployeeRecalculates(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, records, ledger := newTestService(trail)
	week := serviceWeek(t)
	ctx := context.Background()

	first, err := svc.CalculateForEmployee(ctx, "tester", "emp-1", week, DefaultRates())
	require.NoError(t, err)

	_, err = ledger.Add(ctx, adjustment.Adjustment{
		EmployeeID:  "emp-1",
		WeekStart:   week.Start,
		Type:        adjustment.TypeBonus,
		Category:    adjustment.CategorySafety,
		Amount:      decimal.NewFromInt(100),
		Description: "no incidents",
	})
	require.NoError(t, err)

	second, err := svc.CalculateForEmployee(ctx, "tester", "emp-1", week, DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "recalculation must overwrite, not duplicate")
	assert.Equal(t, 1, records.Len())
	assert.Equal(t, "2050.00", second.NetPay.StringFixed(2))
}

func TestCalculateForEmployeeUnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(audit.NewMemoryTrail())
	_, err := svc.CalculateForEmployee(context.Background(), "tester", "ghost", serviceWeek(t), DefaultRates())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestCalculateForEmployeeSurfacesAuditFailure(t *testing.T) {
	svc, records, _ := newTestService(failingTrail{})
	week := serviceWeek(t)

	_, err := svc.CalculateForEmployee(context.Background(), "tester", "emp-1", week, DefaultRates())
	require.ErrorIs(t, err, ErrUnaudited)

	// The record itself still persisted; only the audit append failed.
	assert.Equal(t, 1, records.Len())
}

func TestProcessBlocksRecalculation(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _, _ := newTestService(trail)
	week := serviceWeek(t)
	ctx := context.Background()

	_, err := svc.CalculateForEmployee(ctx, "tester", "emp-1", week, DefaultRates())
	require.NoError(t, err)

	processed, err := svc.Process(ctx, "supervisor", "emp-1", week)
	require.NoError(t, err)
	assert.True(t, processed.Processed)
	assert.Equal(t, "supervisor", processed.ProcessedBy)
	require.NotNil(t, processed.ProcessedAt)

	_, err = svc.CalculateForEmployee(ctx, "tester", "emp-1", week, DefaultRates())
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = svc.Process(ctx, "supervisor", "emp-1", week)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestProcessUnknownRecord(t *testing.T) {
	svc, _, _ := newTestService(audit.NewMemoryTrail())
	_, err := svc.Process(context.Background(), "supervisor", "emp-1", serviceWeek(t))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestServiceAnnualBonusAudits(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _, _ := newTestService(trail)

	amount, err := svc.AnnualBonus(context.Background(), "tester", "emp-1", decimal.NewFromInt(300), 365)
	require.NoError(t, err)
	assert.Equal(t, "4500.00", amount.StringFixed(2))

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCalculateAguinaldo, entries[0].Action)
}

func TestServiceSeveranceAudits(t *testing.T) {
	trail := audit.NewMemoryTrail()
	svc, _, _ := newTestService(trail)

	amount, err := svc.Severance(context.Background(), "tester", "emp-1", decimal.NewFromInt(300), ReasonWithoutCause)
	require.NoError(t, err)
	assert.Equal(t, "27000.00", amount.StringFixed(2))

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCalculateSeverance, entries[0].Action)
	assert.Equal(t, "without_cause", entries[0].Details)
}
