package core

import (
	"errors"
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{
			name:      "march",
			year:      2025,
			month:     3,
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 31, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "february leap year",
			year:      2024,
			month:     2,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "february non-leap year",
			year:      2025,
			month:     2,
			wantStart: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 2, 28, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "december crosses year",
			year:      2025,
			month:     12,
			wantStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 12, 31, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:    "month zero",
			year:    2025,
			month:   0,
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "month thirteen",
			year:    2025,
			month:   13,
			wantErr: ErrInvalidMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := MonthRange(tt.year, tt.month)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MonthRange() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthRange() error = %v", err)
			}
			if !rng.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", rng.Start, tt.wantStart)
			}
			if !rng.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", rng.End, tt.wantEnd)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	rng := YearRange(2025)

	wantStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 12, 31, 23, 59, 59, 999000000, time.UTC)
	if !rng.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", rng.Start, wantStart)
	}
	if !rng.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", rng.End, wantEnd)
	}
}

func TestDateRange_Contains(t *testing.T) {
	rng, err := MonthRange(2025, 3)
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first instant", rng.Start, true},
		{"last instant", rng.End, true},
		{"mid month", time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"just before", rng.Start.Add(-time.Millisecond), false},
		{"just after", rng.End.Add(time.Millisecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rng.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestResolvePeriodFilter(t *testing.T) {
	month := 3
	year := 2025
	badMonth := 13

	tests := []struct {
		name    string
		month   *int
		year    *int
		want    *DateRange
		wantErr error
	}{
		{
			name:  "month and year",
			month: &month,
			year:  &year,
			want: &DateRange{
				Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 3, 31, 23, 59, 59, 999000000, time.UTC),
			},
		},
		{
			name: "year only",
			year: &year,
			want: &DateRange{
				Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 12, 31, 23, 59, 59, 999000000, time.UTC),
			},
		},
		{
			name:    "month without year is rejected",
			month:   &month,
			wantErr: ErrYearRequired,
		},
		{
			name: "neither means no filter",
		},
		{
			name:    "invalid month",
			month:   &badMonth,
			year:    &year,
			wantErr: ErrInvalidMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePeriodFilter(tt.month, tt.year)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolvePeriodFilter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePeriodFilter() error = %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ResolvePeriodFilter() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ResolvePeriodFilter() = nil, want range")
			}
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("ResolvePeriodFilter() = [%v, %v], want [%v, %v]",
					got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}
