package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// StatementPDF renders one payment record as a PDF statement for
// download.
func (s *Service) StatementPDF(ctx context.Context, businessID, recordID string) ([]byte, string, error) {
	rec, err := s.store.GetRecord(ctx, businessID, recordID)
	if err != nil {
		return nil, "", err
	}
	names, err := s.store.EmployeeNames(ctx, businessID)
	if err != nil {
		return nil, "", err
	}
	name := names[rec.EmployeeID]
	if name == "" {
		name = rec.EmployeeID
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payment Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", rec.PeriodStart, rec.PeriodEnd))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Hours: %.2f at %.2f per hour", rec.TotalHours, rec.HourlyRate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f", rec.GrossPay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonuses: %.2f", rec.Bonuses))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Advances: %.2f", rec.Advances))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", rec.Deductions))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f", rec.NetPay))
	if rec.PaidAt != nil {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, fmt.Sprintf("Paid %s via %s", rec.PaidAt.Format("2006-01-02"), rec.PaymentMethod))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("statement-%s.pdf", rec.PeriodStart)
	return buf.Bytes(), filename, nil
}
