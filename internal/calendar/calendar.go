// Package calendar holds the civil-date helpers shared by the report,
// schedule and service layers. Dates never pass through a time zone.
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const Layout = "2006-01-02"

// Parse reads a zero-padded YYYY-MM-DD date by its components.
func Parse(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Today is the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func MonthEnd(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// PreviousMonth returns the first and last day of the month before d's.
func PreviousMonth(d civil.Date) (civil.Date, civil.Date) {
	last := MonthStart(d).AddDays(-1)
	return MonthStart(last), last
}

// PreviousYear returns Jan 1 and Dec 31 of the year before d's.
func PreviousYear(d civil.Date) (civil.Date, civil.Date) {
	return civil.Date{Year: d.Year - 1, Month: time.January, Day: 1},
		civil.Date{Year: d.Year - 1, Month: time.December, Day: 31}
}

// MonthKey formats d's month as YYYY-MM.
func MonthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// Within reports start <= d <= end.
func Within(d, start, end civil.Date) bool {
	return !d.Before(start) && !d.After(end)
}

func IsWeekend(d civil.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
