package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "2024/01/01", "24-1-1"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error", s)
		}
	}
	d, err := Parse("2024-02-29")
	if err != nil || d != date(2024, time.February, 29) {
		t.Fatalf("Parse leap day = %v, %v", d, err)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	now := time.Date(2024, 3, 31, 22, 30, 0, 0, time.UTC)
	ist := time.FixedZone("IST", 3*60*60)
	if got := Today(now, ist); got != date(2024, time.April, 1) {
		t.Fatalf("Today = %v", got)
	}
	if got := Today(now, nil); got != date(2024, time.March, 31) {
		t.Fatalf("Today UTC = %v", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		y    int
		m    time.Month
		want int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.y, tt.m); got != tt.want {
			t.Errorf("DaysInMonth(%d,%v) = %d", tt.y, tt.m, got)
		}
	}
}

func TestPreviousPeriods(t *testing.T) {
	s, e := PreviousMonth(date(2024, time.March, 15))
	if s != date(2024, time.February, 1) || e != date(2024, time.February, 29) {
		t.Fatalf("PreviousMonth = %v..%v", s, e)
	}
	s, e = PreviousMonth(date(2024, time.January, 1))
	if s != date(2023, time.December, 1) || e != date(2023, time.December, 31) {
		t.Fatalf("PreviousMonth across year = %v..%v", s, e)
	}
	s, e = PreviousYear(date(2024, time.June, 1))
	if s != date(2023, time.January, 1) || e != date(2023, time.December, 31) {
		t.Fatalf("PreviousYear = %v..%v", s, e)
	}
}

func TestIsWeekendIgnoresZone(t *testing.T) {
	if !IsWeekend(date(2024, time.June, 1)) || !IsWeekend(date(2024, time.June, 2)) {
		t.Fatal("expected Saturday and Sunday to be weekend")
	}
	if IsWeekend(date(2024, time.June, 3)) {
		t.Fatal("Monday is not weekend")
	}
}

func TestMonthKeyAndWithin(t *testing.T) {
	if got := MonthKey(date(2024, time.May, 9)); got != "2024-05" {
		t.Fatalf("MonthKey = %s", got)
	}
	start, end := date(2024, 1, 1), date(2024, 1, 31)
	if !Within(start, start, end) || !Within(end, start, end) {
		t.Fatal("bounds are inclusive")
	}
	if Within(date(2024, 2, 1), start, end) {
		t.Fatal("outside range")
	}
}
