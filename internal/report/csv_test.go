package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/report"
)

func sampleRequests() []expense.Request {
	return []expense.Request{
		{
			ID:     "r1",
			Code:   "HRB-001",
			Status: expense.StatusConfirmed,
			Items: []expense.Item{
				{Name: "Cement", Quantity: 4, Amount: 120000, Currency: expense.CurrencyUZS},
				{Name: `Gloves "L"`, Quantity: 10, Amount: 15000, Currency: expense.CurrencyUZS},
			},
			TotalAmount: 630000,
			Currency:    expense.CurrencyUZS,
			ProjectName: "Harbor Renovation",
			ProjectCode: "HRB",
			CreatedBy:   "Karimova Dilnoza",
			Date:        time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:     "r2",
			Code:   "HRB-002",
			Status: expense.StatusReview,
			Items: []expense.Item{
				{Name: "Paint", Quantity: 2, Amount: 80000, Currency: expense.CurrencyUZS},
			},
			TotalAmount: 160000,
			Currency:    expense.CurrencyUZS,
			Date:        time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteExpensesCSV_ConfirmedOnlyByDefault(t *testing.T) {
	var sb strings.Builder

	require.NoError(t, report.WriteExpensesCSV(&sb, sampleRequests(), report.CSVOptions{}))

	out := sb.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header plus one row per item of the confirmed request.
	require.Len(t, lines, 3)
	assert.NotContains(t, out, "HRB-002")
}

func TestWriteExpensesCSV_AllStatuses(t *testing.T) {
	var sb strings.Builder

	require.NoError(t, report.WriteExpensesCSV(&sb, sampleRequests(), report.CSVOptions{AllStatuses: true}))

	out := sb.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, out, "HRB-002")
	assert.Contains(t, out, `"In Review"`)
}

func TestWriteExpensesCSV_Format(t *testing.T) {
	var sb strings.Builder

	require.NoError(t, report.WriteExpensesCSV(&sb, sampleRequests(), report.CSVOptions{}))

	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "output must start with a BOM")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	header := strings.TrimPrefix(lines[0], "\uFEFF")
	assert.Equal(t, `"Request ID";"Date/Time";"Project Code";"Project";"Requested By";"Status";"Item";"Qty";"Amount";"Currency";"Request Total"`, header)

	// Request-level fields repeat on every item row; the request total
	// sits in the trailing column.
	first := lines[1]
	assert.Contains(t, first, `"HRB-001"`)
	assert.Contains(t, first, `"2026-02-01 09:30"`)
	assert.Contains(t, first, `"Cement"`)
	assert.Contains(t, first, `"120,000"`)
	assert.True(t, strings.HasSuffix(first, `"630,000 UZS"`))

	second := lines[2]
	assert.Contains(t, second, `"HRB-001"`)
	assert.Contains(t, second, `"Gloves ""L"""`)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,250,000", report.FormatAmount(1250000))
	assert.Equal(t, "1,234.5", report.FormatAmount(1234.5))
	assert.Equal(t, "0", report.FormatAmount(0))
}
