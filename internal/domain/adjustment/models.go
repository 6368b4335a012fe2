package adjustment

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeBonus     Type = "bonus"
	TypeDeduction Type = "deduction"
)

type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryOvertimeBonus Category = "overtime_bonus"
	CategoryTransport     Category = "transport"
	CategoryFood          Category = "food"
	CategorySafety        Category = "safety"
	CategoryAdvance       Category = "advance"
	CategoryLoan          Category = "loan"
	CategoryOther         Category = "other"
)

var (
	ErrValidation = errors.New("invalid adjustment")
	ErrNotFound   = errors.New("adjustment not found")
)

// Adjustment is immutable once created; corrections go through Remove plus a
// fresh entry, never an edit.
type Adjustment struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employeeId"`
	PayrollID    *string         `json:"payrollId,omitempty"`
	WeekStart    time.Time       `json:"weekStart"`
	Type         Type            `json:"type"`
	Category     Category        `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	AuthorizedBy string          `json:"authorizedBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (a Adjustment) Validate() error {
	if a.EmployeeID == "" {
		return ErrValidation
	}
	if a.Type != TypeBonus && a.Type != TypeDeduction {
		return ErrValidation
	}
	if !a.Amount.IsPositive() {
		return ErrValidation
	}
	if strings.TrimSpace(a.Description) == "" {
		return ErrValidation
	}
	return nil
}
