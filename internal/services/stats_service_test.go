package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/core"
)

func TestStatsService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	salary := f.category(t, "user-1", "Salario", core.Income)
	food := f.category(t, "user-1", "Alimentación", core.Expense)

	f.transaction(t, "user-1", salary.ID, "3000", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	f.transaction(t, "user-1", food.ID, "800", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	view, err := f.stats.Stats(ctx, "user-1", intPtr(3), intPtr(2025))
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if view.TotalIncome.String() != "3000" {
		t.Errorf("TotalIncome = %v, want 3000", view.TotalIncome)
	}
	if view.TotalExpense.String() != "800" {
		t.Errorf("TotalExpense = %v, want 800", view.TotalExpense)
	}
	if view.Balance.String() != "2200" {
		t.Errorf("Balance = %v, want 2200", view.Balance)
	}
	if view.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", view.TransactionCount)
	}
}

func TestStatsService_PeriodFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	food := f.category(t, "user-1", "Alimentación", core.Expense)
	f.transaction(t, "user-1", food.ID, "100", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	f.transaction(t, "user-1", food.ID, "200", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	f.transaction(t, "user-1", food.ID, "400", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name        string
		month, year *int
		wantExpense string
		wantCount   int
	}{
		{"single month", intPtr(3), intPtr(2025), "100", 1},
		{"whole year", nil, intPtr(2025), "300", 2},
		{"all time", nil, nil, "700", 3},
		{"empty month", intPtr(12), intPtr(2025), "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := f.stats.Stats(ctx, "user-1", tt.month, tt.year)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if view.TotalExpense.String() != tt.wantExpense {
				t.Errorf("TotalExpense = %v, want %v", view.TotalExpense, tt.wantExpense)
			}
			if view.TransactionCount != tt.wantCount {
				t.Errorf("TransactionCount = %d, want %d", view.TransactionCount, tt.wantCount)
			}
		})
	}
}

func TestStatsService_MonthWithoutYear(t *testing.T) {
	f := newFixture(t)
	if _, err := f.stats.Stats(context.Background(), "user-1", intPtr(3), nil); !errors.Is(err, core.ErrYearRequired) {
		t.Errorf("Stats(month only) error = %v, want ErrYearRequired", err)
	}
}

func TestStatsService_IsolatesUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	food := f.category(t, "user-1", "Alimentación", core.Expense)
	f.transaction(t, "user-1", food.ID, "100", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	view, err := f.stats.Stats(ctx, "user-2", nil, nil)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if view.TransactionCount != 0 {
		t.Errorf("TransactionCount = %d for a user with no data, want 0", view.TransactionCount)
	}
	if view.Balance.String() != "0" {
		t.Errorf("Balance = %v, want 0", view.Balance)
	}
}
