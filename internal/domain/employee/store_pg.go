// Package employee resolves pay profiles from the employee directory.
package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (s *Store) Get(ctx context.Context, id string) (payroll.Employee, error) {
	var emp payroll.Employee
	var hourlyRate, dailySalary string
	err := s.DB.QueryRow(ctx, `
    SELECT id, salary_type,
           COALESCE(hourly_rate, 0)::text,
           COALESCE(daily_salary, 0)::text,
           COALESCE(site_id, ''), COALESCE(supervisor_id, '')
    FROM employees
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.SalaryType, &hourlyRate, &dailySalary, &emp.SiteID, &emp.SupervisorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.Employee{}, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return payroll.Employee{}, err
	}

	if emp.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
		return payroll.Employee{}, err
	}
	if emp.DailySalary, err = decimal.NewFromString(dailySalary); err != nil {
		return payroll.Employee{}, err
	}
	return emp, nil
}

// List returns all active employee IDs in directory order, for bulk selection.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employees WHERE active ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
