package audit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionCalculatePayroll   Action = "calculate_payroll"
	ActionBulkCalculate      Action = "bulk_calculate"
	ActionCalculateAguinaldo Action = "calculate_aguinaldo"
	ActionCalculateSeverance Action = "calculate_severance"
	ActionProcessPayroll     Action = "process_payroll"
	ActionAdjustmentAdded    Action = "adjustment_added"
	ActionAdjustmentRemoved  Action = "adjustment_removed"
	ActionExport             Action = "export"
	ActionApprovePayroll     Action = "approve_payroll"
	ActionModifyRates        Action = "modify_rates"
)

// Entry is append-only. Nothing in the normal lifecycle mutates or deletes it.
type Entry struct {
	ID          string          `json:"id"`
	Action      Action          `json:"action"`
	EmployeeRef string          `json:"employeeRef"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	User        string          `json:"user"`
	Details     string          `json:"details,omitempty"`
}

type Filter struct {
	Action      Action
	EmployeeRef string
	From        time.Time
	To          time.Time
	Ascending   bool
}

// Trail is the audit sink. Append failures are correctness defects and must be
// surfaced to the caller, never swallowed.
type Trail interface {
	Append(ctx context.Context, entry Entry) error
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}

type Summary struct {
	Count           int             `json:"count"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	UniqueEmployees int             `json:"uniqueEmployees"`
	UniqueUsers     int             `json:"uniqueUsers"`
}

// Summarize is pure aggregation over already-queried entries.
func Summarize(entries []Entry) Summary {
	total := decimal.Zero
	employees := map[string]struct{}{}
	users := map[string]struct{}{}
	for _, entry := range entries {
		total = total.Add(entry.Amount)
		if entry.EmployeeRef != "" {
			employees[entry.EmployeeRef] = struct{}{}
		}
		if entry.User != "" {
			users[entry.User] = struct{}{}
		}
	}
	return Summary{
		Count:           len(entries),
		TotalAmount:     total,
		UniqueEmployees: len(employees),
		UniqueUsers:     len(users),
	}
}
