// Package calendar provides the date arithmetic behind the month view and
// the monthly statistics: month bounds, week grids and display formatting.
// All dates are civil dates carried as midnight UTC.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidMonth is returned for months outside 1..12. Callers normalize
// overflow with NormalizeMonth before asking for bounds.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Date returns midnight UTC of the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping t's calendar date.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Today is the current local date.
func Today() time.Time {
	return Truncate(time.Now())
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// MonthBounds returns the first and last date of the month. The last date
// is the first of the following month minus one day, so December rolls over
// into January of the next year.
func MonthBounds(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("month bounds %d-%d: %w", year, month, ErrInvalidMonth)
	}
	first := Date(year, time.Month(month), 1)
	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}
	last := Date(nextYear, time.Month(nextMonth), 1).AddDate(0, 0, -1)
	return first, last, nil
}

// MonthWeeks lays the month out in rows of seven cells starting on Sunday.
// Cells before the first and after the last day of the month are nil.
func MonthWeeks(year, month int) ([][]*time.Time, error) {
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return nil, err
	}

	var weeks [][]*time.Time
	week := make([]*time.Time, int(first.Weekday()))
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d
		week = append(week, &day)
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// WeekDates returns Sunday through Saturday of the week containing ref.
func WeekDates(ref time.Time) []time.Time {
	ref = Truncate(ref)
	start := ref.AddDate(0, 0, -int(ref.Weekday()))
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// NormalizeMonth folds a month that has run one step past either end of the
// year back into range.
func NormalizeMonth(year, month int) (int, int) {
	switch {
	case month < 1:
		return year - 1, 12
	case month > 12:
		return year + 1, 1
	}
	return year, month
}

func PrevMonth(year, month int) (int, int) {
	return NormalizeMonth(year, month-1)
}

func NextMonth(year, month int) (int, int) {
	return NormalizeMonth(year, month+1)
}

// MondayIndex maps a weekday to Monday=0 .. Sunday=6.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
