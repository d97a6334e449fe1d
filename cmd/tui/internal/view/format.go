package view

import (
	"fmt"
	"time"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/report"
)

// FormatMoney renders an amount with its currency, e.g. "1,500,000 UZS".
func FormatMoney(v float64, cur expense.Currency) string {
	return fmt.Sprintf("%s %s", report.FormatAmount(v), cur)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a time.Time into YYYY-MM-DD HH:MM.
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// ParseDate parses a YYYY-MM-DD field, returning nil for a blank input.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}

	return &t, nil
}
