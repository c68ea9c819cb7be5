package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store/memory"
)

// fixture wires every service over a shared in-memory store.
type fixture struct {
	store   *memory.Store
	budgets *BudgetService
	txns    *TransactionService
	cats    *CategoryService
	stats   *StatsService
	export  *ExportService
	alerts  *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	budgets := NewBudgetService(st, st)
	alerts := &fakePublisher{}
	return &fixture{
		store:   st,
		budgets: budgets,
		txns:    NewTransactionService(st, st, budgets, alerts),
		cats:    NewCategoryService(st),
		stats:   NewStatsService(st),
		export:  NewExportService(st),
		alerts:  alerts,
	}
}

func (f *fixture) category(t *testing.T, userID, name string, typ core.CategoryType) core.Category {
	t.Helper()
	c, err := f.cats.Create(context.Background(), userID, name, typ)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

func (f *fixture) transaction(t *testing.T, userID string, categoryID int64, amount string, date time.Time) core.Transaction {
	t.Helper()
	txn, err := f.txns.Create(context.Background(), userID, TransactionInput{
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func intPtr(n int) *int { return &n }

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }
