package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/report"
)

func TestWriteExpenseDocument(t *testing.T) {
	req := expense.Request{
		ID:     "r1",
		Code:   "HRB-001",
		Status: expense.StatusConfirmed,
		Items: []expense.Item{
			{Name: "Cement", Quantity: 4, Amount: 120000, Currency: expense.CurrencyUZS},
			{Name: "Gloves", Quantity: 10, Amount: 15000, Currency: expense.CurrencyUZS},
		},
		TotalAmount:       630000,
		Currency:          expense.CurrencyUZS,
		Purpose:           "Site materials for February",
		ProjectName:       "Harbor Renovation",
		ProjectCode:       "HRB",
		CreatedBy:         "Karimova Dilnoza",
		CreatedByPosition: "Site Manager",
		Date:              time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteExpenseDocument(&buf, req))

	out := buf.Bytes()
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
}

func TestWriteExpenseDocument_NoItems(t *testing.T) {
	req := expense.Request{
		ID:       "r2",
		Code:     "HRB-002",
		Status:   expense.StatusRequest,
		Currency: expense.CurrencyUZS,
		Date:     time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteExpenseDocument(&buf, req))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
