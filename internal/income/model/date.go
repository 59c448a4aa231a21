// Package model defines domain models for validator income reporting.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar layout used for table keys and exports.
const DateLayout = "2006-01-02"

// Date is a UTC calendar day. It is comparable and safe to use as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the UTC calendar day of t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO calendar date such as 2023-01-05.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the ISO form of the day.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// AddDays returns the day n days away from d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Window is an inclusive range of calendar days.
type Window struct {
	Min Date
	Max Date
}

// YearWindow returns Jan 1 through Dec 31 of year.
func YearWindow(year int) Window {
	return Window{
		Min: Date{Year: year, Month: time.January, Day: 1},
		Max: Date{Year: year, Month: time.December, Day: 31},
	}
}

// Contains reports whether d lies inside the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Min) && !d.After(w.Max)
}

// Days returns every day in the window in ascending order.
func (w Window) Days() []Date {
	if w.Max.Before(w.Min) {
		return nil
	}
	days := make([]Date, 0, 366)
	for d := w.Min; !d.After(w.Max); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
