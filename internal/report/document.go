package report

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/safina-app/safina/internal/expense"
)

var docColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Item", 90, "L"},
	{"Qty", 20, "C"},
	{"Amount", 30, "R"},
	{"Subtotal", 40, "R"},
}

// WriteExpenseDocument renders the printable single-request sheet: a
// header with project, date and purpose, the line-item table with
// per-line subtotals and a grand total, and the signature block naming
// the requester and their title.
func WriteExpenseDocument(w io.Writer, r expense.Request) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense request "+r.Code, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "EXPENSE REQUEST", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Request: %s", r.Code), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Project: %s (%s)", r.ProjectName, r.ProjectCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", r.Date.Format("02.01.2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Purpose: %s", r.Purpose), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)

	for _, col := range docColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}

	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)

	for i, item := range r.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			item.Name,
			fmt.Sprintf("%d", item.Quantity),
			FormatAmount(item.Amount),
			FormatAmount(item.Subtotal()),
		}

		for j, col := range docColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, col.align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(docColumns[0].width+docColumns[1].width+docColumns[2].width, 8, "TOTAL", "1", 0, "L", true, 0, "")
	pdf.CellFormat(docColumns[3].width+docColumns[4].width, 8,
		fmt.Sprintf("%s %s", FormatAmount(r.TotalAmount), r.Currency), "1", 1, "R", true, 0, "")

	pdf.Ln(16)

	y := pdf.GetY()
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Requested by:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, r.CreatedBy, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	position := r.CreatedByPosition
	if position == "" {
		position = "Employee"
	}

	pdf.CellFormat(0, 6, position, "", 1, "L", false, 0, "")

	pdf.SetXY(130, y+6)
	pdf.CellFormat(0, 6, "________________ / signature /", "", 2, "L", false, 0, "")
	pdf.SetX(130)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006")), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering expense document: %w", err)
	}

	return nil
}
