package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"nomina/internal/domain/adjustment"
	"nomina/internal/domain/audit"
)

// Service wires the pure calculators to the record store, the adjustment
// ledger, and the audit trail. Every operation takes the acting user
// explicitly; there is no ambient current-user state.
type Service struct {
	Records    RecordStore
	Ledger     adjustment.Ledger
	Audit      audit.Trail
	Employees  EmployeeDirectory
	Attendance AttendanceSource
	Runs       BatchRunStore
}

func NewService(records RecordStore, ledger adjustment.Ledger, trail audit.Trail, employees EmployeeDirectory, attendance AttendanceSource) *Service {
	return &Service{
		Records:    records,
		Ledger:     ledger,
		Audit:      trail,
		Employees:  employees,
		Attendance: attendance,
	}
}

// CalculateForEmployee runs the weekly calculation for one employee, folds
// ledger adjustments into the final gross/net, persists the record, and
// appends a calculate_payroll audit entry. A failed audit append is returned
// as an ErrUnaudited error so the caller never sees a silent success.
func (s *Service) CalculateForEmployee(ctx context.Context, actor, employeeID string, week WeekRange, rates RateConfiguration) (PayrollRecord, error) {
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return PayrollRecord{}, err
	}

	att, err := s.Attendance.TotalsFor(ctx, employeeID, week)
	if err != nil {
		return PayrollRecord{}, err
	}

	record, err := Calculate(emp, week, att, rates)
	if err != nil {
		return PayrollRecord{}, err
	}

	adjs, err := s.Ledger.ListFor(ctx, employeeID, week.Start, week.End)
	if err != nil {
		return PayrollRecord{}, err
	}
	bonuses, deductions := adjustment.Fold(adjs)
	record.Bonuses = bonuses.Round(2)
	record.Deductions = deductions.Round(2)
	record.GrossPay = record.BasePay.Add(record.OvertimePay).Add(record.Bonuses)
	record.NetPay = record.GrossPay.Sub(record.Deductions)

	saved, err := s.Records.Upsert(ctx, record)
	if err != nil {
		return PayrollRecord{}, err
	}

	if err := s.Audit.Append(ctx, audit.Entry{
		Action:      audit.ActionCalculatePayroll,
		EmployeeRef: employeeID,
		Amount:      saved.NetPay,
		User:        actor,
		Details:     fmt.Sprintf("week %s to %s", week.Start.Format("2006-01-02"), week.End.Format("2006-01-02")),
	}); err != nil {
		return saved, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}
	return saved, nil
}

// Process marks the weekly record final. After this, recalculation for the
// same key is rejected.
func (s *Service) Process(ctx context.Context, actor, employeeID string, week WeekRange) (PayrollRecord, error) {
	record, err := s.Records.Get(ctx, employeeID, week.Start)
	if err != nil {
		return PayrollRecord{}, err
	}

	processed, err := s.Records.MarkProcessed(ctx, record.ID, actor)
	if err != nil {
		return PayrollRecord{}, err
	}

	if err := s.Audit.Append(ctx, audit.Entry{
		Action:      audit.ActionProcessPayroll,
		EmployeeRef: employeeID,
		Amount:      processed.NetPay,
		User:        actor,
	}); err != nil {
		return processed, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}
	return processed, nil
}

// AnnualBonus computes the aguinaldo and appends the caller-side audit entry
// the pure calculator deliberately does not produce.
func (s *Service) AnnualBonus(ctx context.Context, actor, employeeRef string, dailySalary decimal.Decimal, daysWorked int) (decimal.Decimal, error) {
	amount, err := AnnualBonus(dailySalary, daysWorked)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.Audit.Append(ctx, audit.Entry{
		Action:      audit.ActionCalculateAguinaldo,
		EmployeeRef: employeeRef,
		Amount:      amount,
		User:        actor,
		Details:     fmt.Sprintf("%d days worked", daysWorked),
	}); err != nil {
		return amount, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}
	return amount, nil
}

// Severance computes the finiquito and appends its audit entry.
func (s *Service) Severance(ctx context.Context, actor, employeeRef string, dailySalary decimal.Decimal, reason TerminationReason) (decimal.Decimal, error) {
	amount, err := Severance(dailySalary, reason)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.Audit.Append(ctx, audit.Entry{
		Action:      audit.ActionCalculateSeverance,
		EmployeeRef: employeeRef,
		Amount:      amount,
		User:        actor,
		Details:     string(reason),
	}); err != nil {
		return amount, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}
	return amount, nil
}
