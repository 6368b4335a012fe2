package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalaryType string

const (
	SalaryHourly SalaryType = "hourly"
	SalaryDaily  SalaryType = "daily"
)

// Employee is the pay profile the engine needs; the directory owns the rest.
type Employee struct {
	ID           string          `json:"id"`
	SalaryType   SalaryType      `json:"salaryType"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	DailySalary  decimal.Decimal `json:"dailySalary"`
	SiteID       string          `json:"siteId,omitempty"`
	SupervisorID string          `json:"supervisorId,omitempty"`
}

type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWeekRange(start, end time.Time) (WeekRange, error) {
	if end.Before(start) {
		return WeekRange{}, ErrInvalidWeek
	}
	return WeekRange{Start: start, End: end}, nil
}

type AttendanceTotals struct {
	WorkedDays    int             `json:"workedDays"`
	RegularHours  decimal.Decimal `json:"regularHours"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
}

type RateConfiguration struct {
	RegularRate        decimal.Decimal `json:"regularRate"`
	OvertimeMultiplier decimal.Decimal `json:"overtimeMultiplier"`
	NightDifferential  decimal.Decimal `json:"nightDifferential"`
	HolidayPremium     decimal.Decimal `json:"holidayPremium"`
}

func DefaultRates() RateConfiguration {
	return RateConfiguration{
		RegularRate:        decimal.Zero,
		OvertimeMultiplier: decimal.RequireFromString("1.5"),
		NightDifferential:  decimal.RequireFromString("1.25"),
		HolidayPremium:     decimal.RequireFromString("2.0"),
	}
}

// PayrollRecord is uniquely keyed by (EmployeeID, WeekStart). Monetary fields
// are rounded to 2 decimal places before they cross the store boundary.
type PayrollRecord struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employeeId"`
	WeekStart     time.Time       `json:"weekStart"`
	WeekEnd       time.Time       `json:"weekEnd"`
	WorkedDays    int             `json:"workedDays"`
	RegularHours  decimal.Decimal `json:"regularHours"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
	BasePay       decimal.Decimal `json:"basePay"`
	OvertimePay   decimal.Decimal `json:"overtimePay"`
	Bonuses       decimal.Decimal `json:"bonuses"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossPay      decimal.Decimal `json:"grossPay"`
	NetPay        decimal.Decimal `json:"netPay"`
	Processed     bool            `json:"processed"`
	ProcessedBy   string          `json:"processedBy,omitempty"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TerminationReason string

const (
	ReasonWithoutCause TerminationReason = "without_cause"
	ReasonVoluntary    TerminationReason = "voluntary"
)
