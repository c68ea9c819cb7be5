package services

import (
	"context"
	"strings"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// ExportService renders a month's transactions as a CSV report with a
// trailing summary block. The caller owns transport concerns (download
// headers, encoding markers); this produces the text blob only.
type ExportService struct {
	txns store.TransactionStore
}

func NewExportService(txns store.TransactionStore) *ExportService {
	return &ExportService{txns: txns}
}

const csvHeader = "Fecha,Categoría,Tipo,Monto,Descripción"

// ExportCSV builds the report for (month, year). Rows come out ordered
// ascending by date, ties in insertion order. core.ErrNoTransactions
// when the month is empty, core.ErrInvalidMonth and core.ErrInvalidYear
// for an out-of-range period.
func (s *ExportService) ExportCSV(ctx context.Context, userID string, month, year int) (string, error) {
	if year < 2000 || year > 2100 {
		return "", core.ErrInvalidYear
	}
	rng, err := core.MonthRange(year, month)
	if err != nil {
		return "", err
	}

	txns, err := s.txns.ListTransactions(ctx, userID, &rng)
	if err != nil {
		return "", err
	}
	if len(txns) == 0 {
		return "", core.ErrNoTransactions
	}

	rows := make([]string, 0, len(txns)+5)
	rows = append(rows, csvHeader)
	for _, t := range txns {
		fields := []string{
			formatCSVDate(t.Date),
			escapeCSV(t.Category.Name),
			string(t.Category.Type),
			t.Amount.StringFixed(2),
			escapeCSV(t.Description),
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	income, expense := core.SumByType(txns)
	rows = append(rows,
		"",
		"RESUMEN",
		"Total Ingresos,,INCOME,"+income.StringFixed(2),
		"Total Gastos,,EXPENSE,"+expense.StringFixed(2),
		"Balance,,,"+income.Sub(expense).StringFixed(2),
	)

	return strings.Join(rows, "\n"), nil
}

// formatCSVDate renders a timestamp as YYYY-MM-DD HH:mm, 24-hour and
// zero-padded, in UTC.
func formatCSVDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// escapeCSV wraps a field in double quotes when it contains a comma, a
// quote or a newline, doubling inner quotes. Fields without special
// characters pass through untouched, which keeps the escaping
// idempotent for already-clean values.
func escapeCSV(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
