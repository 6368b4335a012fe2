package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslipPDF renders a one-page payslip for a computed record.
func RenderPayslipPDF(record PayrollRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", record.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Week: %s to %s", record.WeekStart.Format("2006-01-02"), record.WeekEnd.Format("2006-01-02")))
	pdf.Ln(10)

	lines := []struct {
		label string
		value string
	}{
		{"Days worked", fmt.Sprintf("%d", record.WorkedDays)},
		{"Regular hours", record.RegularHours.String()},
		{"Overtime hours", record.OvertimeHours.String()},
		{"Base pay", record.BasePay.StringFixed(2)},
		{"Overtime pay", record.OvertimePay.StringFixed(2)},
		{"Bonuses", record.Bonuses.StringFixed(2)},
		{"Deductions", record.Deductions.StringFixed(2)},
		{"Gross pay", record.GrossPay.StringFixed(2)},
		{"Net pay", record.NetPay.StringFixed(2)},
	}
	for _, line := range lines {
		pdf.Cell(60, 7, line.label)
		pdf.Cell(0, 7, line.value)
		pdf.Ln(7)
	}

	if record.Processed {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Processed by %s", record.ProcessedBy))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
