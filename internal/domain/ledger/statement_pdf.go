package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GenerateStatementPDF renders the worker's ledger statement as a PDF
// in memory.
func (s *Service) GenerateStatementPDF(ctx context.Context, tenantID, workerID string, from, to time.Time) ([]byte, error) {
	worker, err := s.store.GetWorker(ctx, tenantID, workerID)
	if err != nil {
		return nil, err
	}
	statement, err := s.BuildEmployeeLedger(ctx, tenantID, workerID, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Ledger Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", worker.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Balance brought forward: %s", statement.Summary.BalanceBefore.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(28, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(82, 7, "Description", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Credit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Debit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Balance", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range statement.Entries {
		credit, debit := "", ""
		switch entry.Direction {
		case Credit:
			credit = entry.Amount.StringFixed(2)
		case Debit:
			debit = entry.Amount.StringFixed(2)
		}
		pdf.CellFormat(28, 7, entry.At.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(82, 7, entry.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, credit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, debit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, entry.Balance.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Closing balance: %s", statement.Summary.ClosingBalance.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
