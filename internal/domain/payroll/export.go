package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReportXLSX renders the range report as a spreadsheet. The buffer is
// returned for the handler to stream with download headers.
func (s *Service) ReportXLSX(ctx context.Context, businessID, startDate, endDate string) (*bytes.Buffer, string, error) {
	report, err := s.PayrollReport(ctx, businessID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payroll"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 38)
	f.SetColWidth(sheet, "C", "D", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Payroll %s to %s", report.PeriodStart, report.PeriodEnd))
	f.MergeCell(sheet, "A1", "D1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	f.SetCellValue(sheet, "A2", "Employee")
	f.SetCellValue(sheet, "B2", "Employee ID")
	f.SetCellValue(sheet, "C2", "Hours")
	f.SetCellValue(sheet, "D2", "Paid")
	f.SetCellStyle(sheet, "A2", "D2", headerStyle)

	row := 3
	for _, emp := range report.Employees {
		name := emp.EmployeeName
		if name == "" {
			name = emp.EmployeeID
		}
		f.SetCellValue(sheet, cell("A", row), name)
		f.SetCellValue(sheet, cell("B", row), emp.EmployeeID)
		f.SetCellValue(sheet, cell("C", row), emp.Hours)
		f.SetCellValue(sheet, cell("D", row), emp.Paid)
		row++
	}

	row++
	f.SetCellValue(sheet, cell("A", row), "Total")
	f.SetCellValue(sheet, cell("C", row), report.TotalHours)
	f.SetCellValue(sheet, cell("D", row), report.TotalPaid)
	f.SetCellStyle(sheet, cell("A", row), cell("D", row), headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("payroll-%s-to-%s.xlsx", report.PeriodStart, report.PeriodEnd)
	return buf, filename, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
