package report

import (
	"testing"
	"time"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

func TestDetectDuplicates(t *testing.T) {
	d := day(2025, 3, 5)
	current := []models.Transaction{
		tx("1", d, -100000, "P", "c", "C"),
		tx("2", d, -100000, "P", "c", "C"),
		tx("3", d, -100000, "P", "c", "C"),
		tx("4", d, -100000, "Q", "c", "C"),
		tx("5", d, 100000, "P", "c", "C"),
		tx("6", d, 100000, "P", "c", "C"),
	}

	got := detectDuplicates(current)
	if len(got) != 2 {
		t.Fatalf("expected 2 duplicates, got %d", len(got))
	}
	for _, dup := range got {
		if dup.Payee != "P" || dup.Amount != 100 || dup.Date != "2025-03-05" {
			t.Fatalf("unexpected duplicate %+v", dup)
		}
	}
}

func TestDetectDuplicatesSkipsSplitAndDefaultsPayee(t *testing.T) {
	d := day(2025, 3, 5)
	split := tx("s", d, -5000, "Store", "", models.SplitCategory)
	current := []models.Transaction{
		split, split,
		tx("1", d, -7000, "", "c", "C"),
		tx("2", d, -7000, "", "c", "C"),
	}

	got := detectDuplicates(current)
	if len(got) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(got))
	}
	if got[0].Payee != unknownPayee {
		t.Fatalf("expected default payee, got %q", got[0].Payee)
	}
}

func TestDetectDuplicatesSkipsTransfers(t *testing.T) {
	d := day(2025, 3, 5)
	move := tx("t", d, -250000, "Transfer : Savings", "", "")
	move.TransferAccountID = "savings"

	if got := detectDuplicates([]models.Transaction{move, move}); len(got) != 0 {
		t.Fatalf("expected transfers to be ignored, got %+v", got)
	}
}

func TestDetectRecurring(t *testing.T) {
	monthly := func(payee string, amounts ...models.Milliunits) []models.Transaction {
		var out []models.Transaction
		for i, a := range amounts {
			out = append(out, tx(payee, day(2025, time.Month(i+1), 3), -a, payee, "c", "C"))
		}
		return out
	}

	tests := []struct {
		name    string
		hist    []models.Transaction
		current []models.Transaction
		want    int
	}{
		{name: "stable", hist: monthly("Rent", 500000, 510000), current: monthly("Rent", 495000), want: 1},
		{name: "high variance", hist: monthly("Shop", 500000, 50000, 900000), want: 0},
		{name: "two occurrences", hist: monthly("Rent", 500000, 500000), want: 0},
		{name: "below minimum", hist: monthly("Coffee", 5000, 5000, 5000), want: 0},
		{name: "no payee", hist: monthly("", 500000, 500000, 500000), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detectRecurring(tc.hist, tc.current)
			if len(got) != tc.want {
				t.Fatalf("expected %d recurring items, got %d", tc.want, len(got))
			}
		})
	}
}

func TestDetectRecurringFields(t *testing.T) {
	hist := []models.Transaction{
		tx("1", day(2025, 1, 3), -500000, "Rent", "c", "C"),
		tx("2", day(2025, 2, 3), -510000, "Rent", "c", "C"),
	}
	current := []models.Transaction{tx("3", day(2025, 3, 3), -495000, "Rent", "c", "C")}

	got := detectRecurring(hist, current)
	if len(got) != 1 {
		t.Fatalf("expected one recurring item, got %d", len(got))
	}
	item := got[0]
	if item.Count != 3 || item.LastDate != "2025-03-03" {
		t.Fatalf("unexpected item %+v", item)
	}
	if !almostEqual(item.AverageAmount, (500.0+510.0+495.0)/3) {
		t.Fatalf("average mismatch: %v", item.AverageAmount)
	}
}

func TestDetectRecurringIgnoresTransfersAndSplits(t *testing.T) {
	var hist []models.Transaction
	for i := 1; i <= 3; i++ {
		transfer := tx("t", day(2025, time.Month(i), 1), -200000, "Savings", "", "")
		transfer.TransferAccountID = "acct"
		split := tx("s", day(2025, time.Month(i), 1), -200000, "Store", "", models.SplitCategory)
		hist = append(hist, transfer, split)
	}
	if got := detectRecurring(hist, nil); len(got) != 0 {
		t.Fatalf("expected no recurring items, got %+v", got)
	}
}

func TestHistoricalAverage(t *testing.T) {
	transfer := tx("t", day(2025, 1, 1), -900000, "Savings", "", "")
	transfer.TransferAccountID = "acct"
	hist := []models.Transaction{
		tx("1", day(2025, 1, 5), -150000, "A", "a", "A"),
		tx("2", day(2025, 2, 5), -150000, "B", "b", "B"),
		tx("3", day(2025, 2, 6), 500000, "Job", "", ""),
		transfer,
	}
	if got := historicalAverage(hist); got != 100 {
		t.Fatalf("average mismatch: got %v", got)
	}
}

func TestBuildTrends(t *testing.T) {
	categories := []dto.CategorySpending{
		{CategoryName: "Food", TotalAmount: 150},
		{CategoryName: "Rent", TotalAmount: 500},
		{CategoryName: "Fun", TotalAmount: 0},
	}
	previous := []models.Transaction{
		tx("1", day(2025, 2, 1), -100000, "A", "f", "Food"),
		tx("2", day(2025, 2, 2), 20000, "Refund", "f", "Food"),
		tx("3", day(2025, 2, 3), -40000, "S", "", models.SplitCategory),
	}

	got := buildTrends(categories, previous)

	if tr := got["Food"]; tr.PreviousAmount != 100 || tr.ChangePercentage != 50 {
		t.Fatalf("food trend mismatch: %+v", tr)
	}
	if tr := got["Rent"]; tr.PreviousAmount != 0 || tr.ChangePercentage != 100 {
		t.Fatalf("rent trend mismatch: %+v", tr)
	}
	if tr := got["Fun"]; tr.ChangePercentage != 0 {
		t.Fatalf("fun trend mismatch: %+v", tr)
	}
}
