package core

import "time"

// DateRange is an inclusive calendar interval. Both bounds participate
// in range checks.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MonthRange resolves a (month, year) pair to the inclusive range from
// the first instant of day 1 to 23:59:59.999 of the month's last day.
func MonthRange(year, month int) (DateRange, error) {
	if month < 1 || month > 12 {
		return DateRange{}, ErrInvalidMonth
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return DateRange{Start: start, End: end}, nil
}

// YearRange resolves a year to Jan 1 00:00 .. Dec 31 23:59:59.999.
func YearRange(year int) DateRange {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
	return DateRange{Start: start, End: end}
}

// ResolvePeriodFilter maps optional month/year parameters to a date
// range. Both set filters the month, year alone filters the whole year,
// neither means no filter (nil), and a month without a year is rejected.
func ResolvePeriodFilter(month, year *int) (*DateRange, error) {
	switch {
	case month != nil && year != nil:
		r, err := MonthRange(*year, *month)
		if err != nil {
			return nil, err
		}
		return &r, nil
	case year != nil:
		r := YearRange(*year)
		return &r, nil
	case month != nil:
		return nil, ErrYearRequired
	default:
		return nil, nil
	}
}
