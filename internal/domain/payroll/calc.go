package payroll

import (
	"github.com/shopspring/decimal"
)

var hoursPerDay = decimal.NewFromInt(8)

// Calculate computes the pre-adjustment weekly record for one employee. It is
// pure: persistence and adjustment folding are the caller's responsibility.
func Calculate(emp Employee, week WeekRange, att AttendanceTotals, rates RateConfiguration) (PayrollRecord, error) {
	if week.End.Before(week.Start) {
		return PayrollRecord{}, ErrInvalidWeek
	}
	if err := validateRates(rates); err != nil {
		return PayrollRecord{}, err
	}
	if att.WorkedDays < 0 || att.RegularHours.IsNegative() || att.OvertimeHours.IsNegative() {
		return PayrollRecord{}, ErrInvalidAttendance
	}

	var basePay, overtimePay decimal.Decimal
	switch emp.SalaryType {
	case SalaryDaily:
		if emp.DailySalary.IsNegative() {
			return PayrollRecord{}, ErrInvalidRate
		}
		basePay = emp.DailySalary.Mul(decimal.NewFromInt(int64(att.WorkedDays)))
		overtimeRate := emp.DailySalary.Div(hoursPerDay).Mul(rates.OvertimeMultiplier)
		overtimePay = att.OvertimeHours.Mul(overtimeRate)
	case SalaryHourly:
		rate := emp.HourlyRate
		if rate.IsNegative() {
			return PayrollRecord{}, ErrInvalidRate
		}
		if rate.IsZero() {
			rate = rates.RegularRate
		}
		if !rate.IsPositive() {
			return PayrollRecord{}, ErrMissingRate
		}
		basePay = att.RegularHours.Mul(rate)
		overtimePay = att.OvertimeHours.Mul(rate).Mul(rates.OvertimeMultiplier)
	default:
		return PayrollRecord{}, ErrMissingRate
	}

	basePay = basePay.Round(2)
	overtimePay = overtimePay.Round(2)
	gross := basePay.Add(overtimePay)

	return PayrollRecord{
		EmployeeID:    emp.ID,
		WeekStart:     week.Start,
		WeekEnd:       week.End,
		WorkedDays:    att.WorkedDays,
		RegularHours:  att.RegularHours,
		OvertimeHours: att.OvertimeHours,
		BasePay:       basePay,
		OvertimePay:   overtimePay,
		Bonuses:       decimal.Zero,
		Deductions:    decimal.Zero,
		GrossPay:      gross,
		NetPay:        gross,
	}, nil
}

func validateRates(rates RateConfiguration) error {
	if rates.RegularRate.IsNegative() {
		return ErrInvalidRate
	}
	for _, m := range []decimal.Decimal{rates.OvertimeMultiplier, rates.NightDifferential, rates.HolidayPremium} {
		if !m.IsPositive() {
			return ErrInvalidRate
		}
	}
	return nil
}
