package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCategoryType_Validate(t *testing.T) {
	tests := []struct {
		typ     CategoryType
		wantErr bool
	}{
		{Income, false},
		{Expense, false},
		{CategoryType("TRANSFER"), true},
		{CategoryType(""), true},
		{CategoryType("income"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			err := tt.typ.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		wantErr error
	}{
		{"valid", Category{Name: "Alimentación", Type: Expense}, nil},
		{"empty name", Category{Name: "  ", Type: Expense}, ErrEmptyName},
		{"name too long", Category{Name: strings.Repeat("x", 101), Type: Expense}, ErrNameTooLong},
		{"bad type", Category{Name: "Otro", Type: "OTHER"}, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		CategoryID: 1,
		Amount:     decimal.RequireFromString("10"),
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(Transaction) Transaction
		wantErr error
	}{
		{"valid", func(t Transaction) Transaction { return t }, nil},
		{"negative amount", func(t Transaction) Transaction {
			t.Amount = decimal.RequireFromString("-1")
			return t
		}, ErrInvalidAmount},
		{"zero date", func(t Transaction) Transaction {
			t.Date = time.Time{}
			return t
		}, ErrZeroDate},
		{"description too long", func(t Transaction) Transaction {
			t.Description = strings.Repeat("x", 501)
			return t
		}, ErrDescTooLong},
		{"missing category", func(t Transaction) Transaction {
			t.CategoryID = 0
			return t
		}, ErrNoCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	valid := Budget{
		Month:   3,
		Year:    2025,
		Amount:  decimal.RequireFromString("1000"),
		AlertAt: 80,
	}

	tests := []struct {
		name    string
		mutate  func(Budget) Budget
		wantErr error
	}{
		{"valid", func(b Budget) Budget { return b }, nil},
		{"month zero", func(b Budget) Budget { b.Month = 0; return b }, ErrInvalidMonth},
		{"month thirteen", func(b Budget) Budget { b.Month = 13; return b }, ErrInvalidMonth},
		{"year below floor", func(b Budget) Budget { b.Year = 1999; return b }, ErrInvalidYear},
		{"year above cap", func(b Budget) Budget { b.Year = 2101; return b }, ErrInvalidYear},
		{"year at floor", func(b Budget) Budget { b.Year = 2000; return b }, nil},
		{"year at cap", func(b Budget) Budget { b.Year = 2100; return b }, nil},
		{"negative amount", func(b Budget) Budget {
			b.Amount = decimal.RequireFromString("-1")
			return b
		}, ErrInvalidAmount},
		{"alertAt negative", func(b Budget) Budget { b.AlertAt = -1; return b }, ErrInvalidAlertAt},
		{"alertAt over 100", func(b Budget) Budget { b.AlertAt = 101; return b }, ErrInvalidAlertAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
