package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/safina-app/safina/internal/expense"
)

// utf8BOM makes spreadsheet applications pick up the encoding.
const utf8BOM = "\uFEFF"

var csvHeader = []string{
	"Request ID", "Date/Time", "Project Code", "Project", "Requested By",
	"Status", "Item", "Qty", "Amount", "Currency", "Request Total",
}

// CSVOptions controls the export scope. The default exports confirmed
// requests only; AllStatuses includes every status, archived included.
type CSVOptions struct {
	AllStatuses bool
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with locale grouping, e.g. 1,250,000.
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// WriteExpensesCSV writes the flat report: one row per (request, item)
// pair, request-level fields repeated on every row and the request
// total in the trailing column. Fields are quoted and semicolon
// delimited so locale-formatted numbers survive; the output starts with
// a byte-order marker.
func WriteExpensesCSV(w io.Writer, requests []expense.Request, opts CSVOptions) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	if err := writeRow(w, csvHeader); err != nil {
		return err
	}

	for _, r := range requests {
		if !opts.AllStatuses && r.Status != expense.StatusConfirmed {
			continue
		}

		for _, item := range r.Items {
			row := []string{
				r.Code,
				r.Date.Format("2006-01-02 15:04"),
				r.ProjectCode,
				r.ProjectName,
				r.CreatedBy,
				r.Status.Label(),
				item.Name,
				fmt.Sprintf("%d", item.Quantity),
				FormatAmount(item.Amount),
				string(item.Currency),
				fmt.Sprintf("%s %s", FormatAmount(r.TotalAmount), r.Currency),
			}

			if err := writeRow(w, row); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}

	if _, err := io.WriteString(w, strings.Join(quoted, ";")+"\n"); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}

	return nil
}
