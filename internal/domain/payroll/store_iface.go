package payroll

import (
	"context"
	"time"
)

// RecordStore is the persistence contract the engine consumes. Upsert is an
// atomic per-key write; once a record is processed both Upsert and
// MarkProcessed reject further writes with ErrAlreadyProcessed.
type RecordStore interface {
	Get(ctx context.Context, employeeID string, weekStart time.Time) (PayrollRecord, error)
	Upsert(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	MarkProcessed(ctx context.Context, recordID, processedBy string) (PayrollRecord, error)
}

// AttendanceSource supplies totals per employee and week. Missing data means
// zeros, not an error.
type AttendanceSource interface {
	TotalsFor(ctx context.Context, employeeID string, week WeekRange) (AttendanceTotals, error)
}

// EmployeeDirectory resolves pay profiles for selected employees.
type EmployeeDirectory interface {
	Get(ctx context.Context, id string) (Employee, error)
}

// BatchRunStore records durable state for bulk runs.
type BatchRunStore interface {
	CreateBatchRun(ctx context.Context, startedBy string) (string, error)
	FinishBatchRun(ctx context.Context, runID, status string, details any) error
}
