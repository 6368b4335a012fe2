package payroll

import (
	"github.com/shopspring/decimal"
)

var (
	aguinaldoDays = decimal.NewFromInt(15)
	yearDays      = decimal.NewFromInt(365)

	severanceDays = map[TerminationReason]decimal.Decimal{
		ReasonWithoutCause: decimal.NewFromInt(90),
		ReasonVoluntary:    decimal.NewFromInt(20),
	}
	severanceDefaultDays = decimal.NewFromInt(30)
)

// AnnualBonus computes the aguinaldo: 15 days of salary, proportional to days
// worked in the year. Values above 365 are accepted and not clamped.
func AnnualBonus(dailySalary decimal.Decimal, daysWorked int) (decimal.Decimal, error) {
	if !dailySalary.IsPositive() {
		return decimal.Zero, ErrInvalidSalary
	}
	if daysWorked <= 0 {
		return decimal.Zero, ErrInvalidAttendance
	}
	amount := dailySalary.Mul(aguinaldoDays).Mul(decimal.NewFromInt(int64(daysWorked))).Div(yearDays)
	return amount.Round(2), nil
}

// Severance computes the finiquito from the termination reason band.
func Severance(dailySalary decimal.Decimal, reason TerminationReason) (decimal.Decimal, error) {
	if !dailySalary.IsPositive() {
		return decimal.Zero, ErrInvalidSalary
	}
	days, ok := severanceDays[reason]
	if !ok {
		days = severanceDefaultDays
	}
	return dailySalary.Mul(days).Round(2), nil
}
