package payroll

import "errors"

var (
	ErrInvalidRate       = errors.New("rate configuration has a non-positive multiplier")
	ErrInvalidAttendance = errors.New("attendance totals contain a negative value")
	ErrMissingRate       = errors.New("hourly employee has no resolvable rate")
	ErrInvalidSalary     = errors.New("daily salary must be positive")
	ErrInvalidWeek       = errors.New("week range end before start")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrRecordNotFound    = errors.New("payroll record not found")
	ErrAlreadyProcessed  = errors.New("payroll record already processed")
	ErrUnaudited         = errors.New("operation succeeded but audit append failed")
)
