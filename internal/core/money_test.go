package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain integer", "100", "100", false},
		{"dot separator", "12.34", "12.34", false},
		{"comma separator", "12,34", "12.34", false},
		{"surrounding spaces", "  55.5  ", "55.5", false},
		{"zero", "0", "0", false},
		{"empty", "", "", true},
		{"negative", "-5", "", true},
		{"malformed", "abc", "", true},
		{"double separator", "1,2,3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		spent  string
		amount string
		want   string
	}{
		{"under half", "1230", "2500", "49.2"},
		{"at threshold", "2100", "2500", "84"},
		{"full", "2500", "2500", "100"},
		{"over", "2600", "2500", "104"},
		{"rounds half up", "1", "3", "33.33"},
		{"rounds two thirds", "2", "3", "66.67"},
		{"zero amount yields zero", "500", "0", "0"},
		{"zero spent", "0", "2500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spent := decimal.RequireFromString(tt.spent)
			amount := decimal.RequireFromString(tt.amount)
			got := Percentage(spent, amount)
			if got.String() != tt.want {
				t.Errorf("Percentage(%s, %s) = %v, want %v", tt.spent, tt.amount, got, tt.want)
			}
		})
	}
}

func TestAlertMessage(t *testing.T) {
	tests := []struct {
		name   string
		spent  string
		amount string
		want   string
	}{
		{"at 84 percent", "2100", "2500", "Has alcanzado el 84% de tu presupuesto"},
		{"rounds to whole number", "2113", "2500", "Has alcanzado el 85% de tu presupuesto"},
		{"over budget", "2600", "2500", "Has alcanzado el 104% de tu presupuesto"},
		{"zero amount", "100", "0", "Has alcanzado el 0% de tu presupuesto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spent := decimal.RequireFromString(tt.spent)
			amount := decimal.RequireFromString(tt.amount)
			if got := AlertMessage(spent, amount); got != tt.want {
				t.Errorf("AlertMessage(%s, %s) = %q, want %q", tt.spent, tt.amount, got, tt.want)
			}
		})
	}
}
