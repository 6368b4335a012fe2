// Package attendance adapts stored attendance entries into the weekly totals
// the payroll engine consumes.
package attendance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"nomina/internal/domain/payroll"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// TotalsFor sums attendance rows for one employee and week. No rows means
// zero totals, not an error.
func (s *Store) TotalsFor(ctx context.Context, employeeID string, week payroll.WeekRange) (payroll.AttendanceTotals, error) {
	var workedDays int
	var regularHours, overtimeHours string
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FILTER (WHERE worked),
           COALESCE(SUM(regular_hours), 0)::text,
           COALESCE(SUM(overtime_hours), 0)::text
    FROM attendance_entries
    WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3
  `, employeeID, week.Start, week.End).Scan(&workedDays, &regularHours, &overtimeHours)
	if err != nil {
		return payroll.AttendanceTotals{}, err
	}

	regular, err := decimal.NewFromString(regularHours)
	if err != nil {
		return payroll.AttendanceTotals{}, err
	}
	overtime, err := decimal.NewFromString(overtimeHours)
	if err != nil {
		return payroll.AttendanceTotals{}, err
	}
	return payroll.AttendanceTotals{
		WorkedDays:    workedDays,
		RegularHours:  regular,
		OvertimeHours: overtime,
	}, nil
}
