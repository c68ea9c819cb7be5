package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEvaluateBudget(t *testing.T) {
	tests := []struct {
		name             string
		amount           string
		alertAt          int
		spent            string
		wantPercentage   string
		wantRemaining    string
		wantOverBudget   bool
		wantShouldAlert  bool
		wantAlertMessage string
	}{
		{
			name:           "under threshold",
			amount:         "2500",
			alertAt:        80,
			spent:          "1230",
			wantPercentage: "49.2",
			wantRemaining:  "1270",
		},
		{
			name:             "past threshold",
			amount:           "2500",
			alertAt:          80,
			spent:            "2100",
			wantPercentage:   "84",
			wantRemaining:    "400",
			wantShouldAlert:  true,
			wantAlertMessage: "Has alcanzado el 84% de tu presupuesto",
		},
		{
			name:             "over budget",
			amount:           "2500",
			alertAt:          80,
			spent:            "2600",
			wantPercentage:   "104",
			wantRemaining:    "-100",
			wantOverBudget:   true,
			wantShouldAlert:  true,
			wantAlertMessage: "Has alcanzado el 104% de tu presupuesto",
		},
		{
			name:             "exactly at threshold alerts",
			amount:           "1000",
			alertAt:          80,
			spent:            "800",
			wantPercentage:   "80",
			wantRemaining:    "200",
			wantShouldAlert:  true,
			wantAlertMessage: "Has alcanzado el 80% de tu presupuesto",
		},
		{
			name:           "just below threshold does not alert",
			amount:         "1000",
			alertAt:        80,
			spent:          "795",
			wantPercentage: "79.5",
			wantRemaining:  "205",
		},
		{
			name:             "spending the full amount is not over budget",
			amount:           "1000",
			alertAt:          80,
			spent:            "1000",
			wantPercentage:   "100",
			wantRemaining:    "0",
			wantOverBudget:   false,
			wantShouldAlert:  true,
			wantAlertMessage: "Has alcanzado el 100% de tu presupuesto",
		},
		{
			name:           "zero amount budget",
			amount:         "0",
			alertAt:        80,
			spent:          "50",
			wantPercentage: "0",
			wantRemaining:  "-50",
			wantOverBudget: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Budget{
				UserID:  "user-1",
				Month:   3,
				Year:    2025,
				Amount:  decimal.RequireFromString(tt.amount),
				AlertAt: tt.alertAt,
			}
			view := EvaluateBudget(b, decimal.RequireFromString(tt.spent))

			if view.Percentage.String() != tt.wantPercentage {
				t.Errorf("Percentage = %v, want %v", view.Percentage, tt.wantPercentage)
			}
			if view.Remaining.String() != tt.wantRemaining {
				t.Errorf("Remaining = %v, want %v", view.Remaining, tt.wantRemaining)
			}
			if view.IsOverBudget != tt.wantOverBudget {
				t.Errorf("IsOverBudget = %v, want %v", view.IsOverBudget, tt.wantOverBudget)
			}
			if view.ShouldAlert != tt.wantShouldAlert {
				t.Errorf("ShouldAlert = %v, want %v", view.ShouldAlert, tt.wantShouldAlert)
			}
			if tt.wantAlertMessage == "" {
				if view.AlertMessage != nil {
					t.Errorf("AlertMessage = %q, want nil", *view.AlertMessage)
				}
			} else {
				if view.AlertMessage == nil {
					t.Fatalf("AlertMessage = nil, want %q", tt.wantAlertMessage)
				}
				if *view.AlertMessage != tt.wantAlertMessage {
					t.Errorf("AlertMessage = %q, want %q", *view.AlertMessage, tt.wantAlertMessage)
				}
			}
		})
	}
}

func txn(amount string, typ CategoryType, date time.Time) Transaction {
	return Transaction{
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
		Category: Category{Name: "test", Type: typ},
	}
}

func TestSumByType(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txns := []Transaction{
		txn("3000", Income, now),
		txn("800", Expense, now),
		txn("200.50", Expense, now),
	}

	income, expense := SumByType(txns)
	if income.String() != "3000" {
		t.Errorf("income = %v, want 3000", income)
	}
	if expense.String() != "1000.5" {
		t.Errorf("expense = %v, want 1000.5", expense)
	}
}

func TestSumByType_Empty(t *testing.T) {
	income, expense := SumByType(nil)
	if !income.IsZero() || !expense.IsZero() {
		t.Errorf("SumByType(nil) = %v, %v, want 0, 0", income, expense)
	}
}

// Sums over two disjoint ranges must equal the sum over their union.
func TestSumByType_AdditiveOverDisjointRanges(t *testing.T) {
	march, _ := MonthRange(2025, 3)
	april, _ := MonthRange(2025, 4)

	all := []Transaction{
		txn("100", Expense, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		txn("250", Expense, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)),
		txn("400", Expense, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)),
		txn("999", Income, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)),
	}

	filter := func(rng DateRange) []Transaction {
		var out []Transaction
		for _, t := range all {
			if rng.Contains(t.Date) {
				out = append(out, t)
			}
		}
		return out
	}

	inM, exM := SumByType(filter(march))
	inA, exA := SumByType(filter(april))
	inAll, exAll := SumByType(all)

	if !inM.Add(inA).Equal(inAll) {
		t.Errorf("income not additive: %v + %v != %v", inM, inA, inAll)
	}
	if !exM.Add(exA).Equal(exAll) {
		t.Errorf("expense not additive: %v + %v != %v", exM, exA, exAll)
	}
}
