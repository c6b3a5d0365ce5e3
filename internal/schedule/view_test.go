package schedule

import (
	"testing"
	"time"
)

func TestBuildView(t *testing.T) {
	today := d(2025, 3, 10)
	occ := []Occurrence{
		{ID: "a-1", Date: d(2025, 3, 12), Amount: -100000, CategoryID: "rent", CategoryName: "Rent", Frequency: Monthly},
		{ID: "b-1", Date: d(2025, 3, 11), Amount: -20000, CategoryID: "fun", CategoryName: "Fun", Frequency: Never},
		{ID: "c-1", Date: d(2025, 3, 15), Amount: 500000, CategoryID: "pay", CategoryName: "Salary", Frequency: Monthly},
		{ID: "a-2", Date: d(2025, 4, 12), Amount: -100000, CategoryID: "rent", CategoryName: "Rent", Frequency: Monthly},
		{ID: "d-1", Date: d(2025, 4, 20), Amount: -300000, Frequency: Yearly},
	}

	view := BuildView(occ, today, 2)

	if view.MonthsAhead != 2 || view.PendingCount != 4 {
		t.Fatalf("unexpected header %+v", view)
	}
	if len(view.Months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(view.Months))
	}

	march := view.Months[0]
	if march.Month != "2025-03" || march.Label != "March 2025" || march.Total != 120 {
		t.Fatalf("unexpected march %+v", march)
	}
	if march.Categories[0].CategoryID != "rent" || march.Categories[0].Color != Palette[0] {
		t.Fatalf("unexpected march categories %+v", march.Categories)
	}

	april := view.Months[1]
	if april.Categories[0].CategoryID != "uncategorized" || april.Categories[0].CategoryName != "Uncategorized" {
		t.Fatalf("expected uncategorized first in april, got %+v", april.Categories[0])
	}
	if april.Categories[0].Color != Palette[1] {
		t.Fatalf("colour should follow first-seen order, got %s", april.Categories[0].Color)
	}

	stats := view.Stats
	if stats.Total != 520 || stats.MonthlyAvg != 260 || stats.Recurring != 3 || stats.OneTime != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.MaxMonth != "April 2025" || stats.MaxMonthTotal != 400 {
		t.Fatalf("unexpected max month %+v", stats)
	}

	if len(view.Next30Days) != 2 || view.Next30Days[0].ID != "b-1" || view.Next30Days[1].ID != "a-1" {
		t.Fatalf("unexpected next 30 days %+v", view.Next30Days)
	}
	if view.Next30Total != 120 {
		t.Fatalf("unexpected next 30 total %v", view.Next30Total)
	}
}

func TestBuildViewEmpty(t *testing.T) {
	view := BuildView(nil, d(2025, time.March, 1), 6)
	if view.Months == nil || view.Next30Days == nil {
		t.Fatalf("empty view should carry empty lists")
	}
	if view.Stats.MaxMonth != "-" || view.Stats.Total != 0 {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
}
