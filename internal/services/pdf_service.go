package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sameera474/buildvault-backend/internal/db"
)

// PdfService renders the monthly test summary export.
type PdfService struct{}

// NewPdfService creates a new PDF service
func NewPdfService() *PdfService {
	return &PdfService{}
}

// MonthlySummary renders per-project report counts for a month into a
// single-page A4 PDF and returns the raw bytes.
func (s *PdfService) MonthlySummary(companyName string, year int, month time.Month, rows []db.MonthlySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Monthly Test Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Monthly Test Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%s - %s %d", companyName, month.String(), year))
	pdf.Ln(12)

	// table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	colWidths := []float64{70, 30, 30, 30, 30}
	headers := []string{"Project", "Reports", "Approved", "Rejected", "Pending"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total, approved, rejected, pending int
	for _, r := range rows {
		pdf.CellFormat(colWidths[0], 8, r.ProjectName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", r.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", r.Approved), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%d", r.Rejected), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%d", r.Pending), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += r.Total
		approved += r.Approved
		rejected += r.Rejected
		pending += r.Pending
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidths[0], 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", approved), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%d", rejected), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%d", pending), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC1123)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
