package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
  id, employee_id, week_start, week_end, worked_days,
  regular_hours::text, overtime_hours::text,
  base_pay::text, overtime_pay::text, bonuses::text, deductions::text,
  gross_pay::text, net_pay::text,
  processed, COALESCE(processed_by, ''), processed_at, created_at`

func (s *Store) Get(ctx context.Context, employeeID string, weekStart time.Time) (PayrollRecord, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records
    WHERE employee_id = $1 AND week_start = $2
  `, employeeID, weekStart)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayrollRecord{}, ErrRecordNotFound
	}
	return record, err
}

// Upsert writes the record atomically keyed by (employee_id, week_start). The
// conditional DO UPDATE leaves processed rows untouched, which surfaces as
// ErrAlreadyProcessed instead of a lost update.
func (s *Store) Upsert(ctx context.Context, record PayrollRecord) (PayrollRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (
      id, employee_id, week_start, week_end, worked_days,
      regular_hours, overtime_hours, base_pay, overtime_pay,
      bonuses, deductions, gross_pay, net_pay
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (employee_id, week_start) DO UPDATE SET
      week_end = EXCLUDED.week_end,
      worked_days = EXCLUDED.worked_days,
      regular_hours = EXCLUDED.regular_hours,
      overtime_hours = EXCLUDED.overtime_hours,
      base_pay = EXCLUDED.base_pay,
      overtime_pay = EXCLUDED.overtime_pay,
      bonuses = EXCLUDED.bonuses,
      deductions = EXCLUDED.deductions,
      gross_pay = EXCLUDED.gross_pay,
      net_pay = EXCLUDED.net_pay
    WHERE payroll_records.processed = false
    RETURNING `+recordColumns,
		record.ID, record.EmployeeID, record.WeekStart, record.WeekEnd, record.WorkedDays,
		record.RegularHours.String(), record.OvertimeHours.String(),
		record.BasePay.StringFixed(2), record.OvertimePay.StringFixed(2),
		record.Bonuses.StringFixed(2), record.Deductions.StringFixed(2),
		record.GrossPay.StringFixed(2), record.NetPay.StringFixed(2))
	saved, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayrollRecord{}, ErrAlreadyProcessed
	}
	return saved, err
}

func (s *Store) MarkProcessed(ctx context.Context, recordID, processedBy string) (PayrollRecord, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE payroll_records
    SET processed = true, processed_by = $2, processed_at = now()
    WHERE id = $1 AND processed = false
    RETURNING `+recordColumns, recordID, processedBy)
	record, err := scanRecord(row)
	if !errors.Is(err, pgx.ErrNoRows) {
		return record, err
	}

	var exists bool
	if err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM payroll_records WHERE id = $1)", recordID).Scan(&exists); err != nil {
		return PayrollRecord{}, err
	}
	if exists {
		return PayrollRecord{}, ErrAlreadyProcessed
	}
	return PayrollRecord{}, ErrRecordNotFound
}

func (s *Store) CreateBatchRun(ctx context.Context, startedBy string) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO batch_runs (started_by, status)
    VALUES ($1,$2)
    RETURNING id
  `, startedBy, "running").Scan(&runID)
	return runID, err
}

func (s *Store) FinishBatchRun(ctx context.Context, runID, status string, details any) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	_, execErr := s.DB.Exec(ctx, `
    UPDATE batch_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID)
	return execErr
}

type BatchRun struct {
	ID          string          `json:"id"`
	StartedBy   string          `json:"startedBy"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

func (s *Store) GetBatchRun(ctx context.Context, runID string) (BatchRun, error) {
	var run BatchRun
	err := s.DB.QueryRow(ctx, `
    SELECT id, started_by, status, COALESCE(details_json, '{}'), started_at, completed_at
    FROM batch_runs
    WHERE id = $1
  `, runID).Scan(&run.ID, &run.StartedBy, &run.Status, &run.Details, &run.StartedAt, &run.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BatchRun{}, ErrRecordNotFound
	}
	return run, err
}

func (s *Store) ListBatchRuns(ctx context.Context, limit int) ([]BatchRun, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, started_by, status, COALESCE(details_json, '{}'), started_at, completed_at
    FROM batch_runs
    ORDER BY started_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []BatchRun
	for rows.Next() {
		var run BatchRun
		if err := rows.Scan(&run.ID, &run.StartedBy, &run.Status, &run.Details, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRecord(row pgx.Row) (PayrollRecord, error) {
	var record PayrollRecord
	var regularHours, overtimeHours, basePay, overtimePay, bonuses, deductions, gross, net string
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.WeekStart, &record.WeekEnd, &record.WorkedDays,
		&regularHours, &overtimeHours, &basePay, &overtimePay, &bonuses, &deductions, &gross, &net,
		&record.Processed, &record.ProcessedBy, &record.ProcessedAt, &record.CreatedAt,
	)
	if err != nil {
		return PayrollRecord{}, err
	}
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&record.RegularHours, regularHours}, {&record.OvertimeHours, overtimeHours},
		{&record.BasePay, basePay}, {&record.OvertimePay, overtimePay},
		{&record.Bonuses, bonuses}, {&record.Deductions, deductions},
		{&record.GrossPay, gross}, {&record.NetPay, net},
	}
	for _, f := range fields {
		parsed, err := decimal.NewFromString(f.src)
		if err != nil {
			return PayrollRecord{}, err
		}
		*f.dst = parsed
	}
	return record, nil
}
