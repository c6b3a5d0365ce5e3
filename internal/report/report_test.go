package report

import (
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/money"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func tx(id string, d civil.Date, amount models.Milliunits, payee, catID, catName string) models.Transaction {
	return models.Transaction{
		ID:           id,
		Date:         d,
		Amount:       amount,
		PayeeName:    payee,
		CategoryID:   catID,
		CategoryName: catName,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildTotalsMatchCategories(t *testing.T) {
	current := []models.Transaction{
		tx("1", day(2025, 3, 1), -12340, "Market", "food", "Food"),
		tx("2", day(2025, 3, 2), -5010, "Cafe", "food", "Food"),
		tx("3", day(2025, 3, 3), -100000, "Landlord", "rent", "Rent"),
		tx("4", day(2025, 3, 4), 250000, "Employer", "", ""),
		tx("5", day(2025, 3, 5), -333, "Kiosk", "", ""),
	}

	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current, Currency: money.DefaultCurrency})

	var sum float64
	for _, c := range got.Categories {
		sum += c.TotalAmount
	}
	if !almostEqual(sum, got.TotalSpent) {
		t.Fatalf("category sum %v != totalSpent %v", sum, got.TotalSpent)
	}
	if got.TotalSpent != -132.317 {
		t.Fatalf("totalSpent mismatch: got %v", got.TotalSpent)
	}
	if got.TotalIncome != 250 {
		t.Fatalf("income mismatch: got %v", got.TotalIncome)
	}
	if got.TotalExpense != 117.683 {
		t.Fatalf("expense mismatch: got %v", got.TotalExpense)
	}
	if got.Categories[0].CategoryID != "rent" {
		t.Fatalf("expected rent first, got %q", got.Categories[0].CategoryID)
	}
	for i := 1; i < len(got.Categories); i++ {
		if got.Categories[i-1].TotalAmount < got.Categories[i].TotalAmount {
			t.Fatalf("categories not sorted descending at %d", i)
		}
	}
	if got.StartDate != "2025-03-01" || got.EndDate != "2025-03-31" {
		t.Fatalf("dates mismatch: %s %s", got.StartDate, got.EndDate)
	}
}

func TestBuildUncategorizedGroup(t *testing.T) {
	current := []models.Transaction{
		tx("1", day(2025, 3, 1), -1000, "A", "", ""),
		tx("2", day(2025, 3, 2), -2000, "B", "", ""),
	}
	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current})

	if len(got.Categories) != 1 {
		t.Fatalf("expected one category, got %d", len(got.Categories))
	}
	c := got.Categories[0]
	if c.CategoryID != uncategorizedID || c.CategoryName != uncategorizedName {
		t.Fatalf("unexpected category %q/%q", c.CategoryID, c.CategoryName)
	}
	if len(c.Transactions) != 2 || c.TotalAmount != 3 {
		t.Fatalf("unexpected category contents: %+v", c)
	}
}

func TestBuildSplitParentNeverContributes(t *testing.T) {
	parent := tx("p", day(2025, 3, 10), -30000, "Store", "", models.SplitCategory)
	parent.Subtransactions = []models.SubTransaction{
		{ID: "s1", Amount: -10000, CategoryID: "food", CategoryName: "Food"},
		{ID: "s2", Amount: -15000, CategoryID: "home", CategoryName: "Home", PayeeName: "Hardware"},
		{ID: "s3", Amount: -5000, CategoryID: "fun", CategoryName: "Fun", Deleted: true},
	}
	empty := tx("e", day(2025, 3, 11), -9000, "Ghost", "", models.SplitCategory)

	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: []models.Transaction{parent, empty}})

	if got.TotalSpent != 25 {
		t.Fatalf("totalSpent mismatch: got %v", got.TotalSpent)
	}
	byID := map[string]dto.CategorySpending{}
	for _, c := range got.Categories {
		byID[c.CategoryID] = c
		for _, item := range c.Transactions {
			if item.ID == "p" || item.ID == "e" {
				t.Fatalf("split parent %q appears as a line item", item.ID)
			}
			if item.IsSplit() {
				t.Fatalf("line item %q still carries the split category", item.ID)
			}
		}
	}
	if _, ok := byID["fun"]; ok {
		t.Fatalf("deleted sub-transaction contributed")
	}
	if byID["food"].Transactions[0].PayeeName != "Store" {
		t.Fatalf("expected parent payee fallback, got %q", byID["food"].Transactions[0].PayeeName)
	}
	if byID["home"].Transactions[0].PayeeName != "Hardware" {
		t.Fatalf("expected sub payee, got %q", byID["home"].Transactions[0].PayeeName)
	}
}

func TestBuildExcludesTransfers(t *testing.T) {
	spend := tx("1", day(2025, 3, 3), -50000, "Market", "food", "Food")
	transfer := tx("2", day(2025, 3, 4), -200000, "Transfer : Savings", "", "")
	transfer.TransferAccountID = "savings"
	split := tx("3", day(2025, 3, 5), -30000, "Store", "", models.SplitCategory)
	split.Subtransactions = []models.SubTransaction{
		{ID: "s1", Amount: -10000, CategoryID: "food", CategoryName: "Food"},
		{ID: "s2", Amount: -20000, TransferAccountID: "savings"},
	}

	got := Build(Input{
		Start:      day(2025, 3, 1),
		End:        day(2025, 3, 31),
		Current:    []models.Transaction{spend, transfer, split},
		Comparison: &Comparison{Mode: dto.ComparisonDaily},
	})

	if got.TotalSpent != 60 || got.TotalExpense != 60 || got.TotalIncome != 0 {
		t.Fatalf("transfers leaked into totals: spent=%v expense=%v income=%v", got.TotalSpent, got.TotalExpense, got.TotalIncome)
	}
	if len(got.Categories) != 1 || got.Categories[0].CategoryID != "food" {
		t.Fatalf("expected only the food category, got %+v", got.Categories)
	}
	for _, item := range got.Categories[0].Transactions {
		if item.ID == "2" || item.ID == "s2" {
			t.Fatalf("transfer %q appears as a line item", item.ID)
		}
	}
}

func TestExpandLineItemsMissingSubCategory(t *testing.T) {
	parent := tx("p", day(2025, 3, 10), -1000, "Store", "", models.SplitCategory)
	parent.Subtransactions = []models.SubTransaction{{ID: "s1", Amount: -1000}}

	items := expandLineItems([]models.Transaction{parent})
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].CategoryName != uncategorizedName || items[0].Subtransactions != nil {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestCashFlowSavingsRate(t *testing.T) {
	tests := []struct {
		name    string
		txs     []models.Transaction
		savings float64
	}{
		{
			name: "balanced",
			txs: []models.Transaction{
				tx("1", day(2025, 3, 1), 1000000, "Job", "", ""),
				tx("2", day(2025, 3, 2), -1000000, "Shop", "x", "X"),
			},
			savings: 0,
		},
		{
			name:    "no income",
			txs:     []models.Transaction{tx("1", day(2025, 3, 2), -1000000, "Shop", "x", "X")},
			savings: 0,
		},
		{
			name: "quarter saved",
			txs: []models.Transaction{
				tx("1", day(2025, 3, 1), 1000000, "Job", "", ""),
				tx("2", day(2025, 3, 2), -750000, "Shop", "x", "X"),
			},
			savings: 25,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: tc.txs})
			if got.CashFlowStats.SavingsRate != tc.savings {
				t.Fatalf("savings mismatch: got %v want %v", got.CashFlowStats.SavingsRate, tc.savings)
			}
			if got.CashFlowStats.Net != got.CashFlowStats.Income-got.CashFlowStats.Expense {
				t.Fatalf("net mismatch: %+v", got.CashFlowStats)
			}
		})
	}
}

func TestBuildHistoricalFailedDegrades(t *testing.T) {
	current := []models.Transaction{
		tx("1", day(2025, 3, 1), -200000, "Gym", "fit", "Fitness"),
		tx("2", day(2025, 3, 1), -200000, "Gym", "fit", "Fitness"),
	}
	historical := []models.Transaction{
		tx("h1", day(2025, 1, 1), -200000, "Gym", "fit", "Fitness"),
		tx("h2", day(2025, 2, 1), -200000, "Gym", "fit", "Fitness"),
	}

	ok := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current, Historical: historical})
	if len(ok.RecurringItems) != 1 || len(ok.PotentialDuplicates) != 1 {
		t.Fatalf("expected baseline data, got %d recurring %d duplicates", len(ok.RecurringItems), len(ok.PotentialDuplicates))
	}
	if !almostEqual(ok.HistoricalMonthlyAverage, 400.0/3) {
		t.Fatalf("average mismatch: got %v", ok.HistoricalMonthlyAverage)
	}

	failed := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current, Historical: historical, HistoricalFailed: true})
	if failed.HistoricalMonthlyAverage != 0 {
		t.Fatalf("expected zero average, got %v", failed.HistoricalMonthlyAverage)
	}
	if len(failed.RecurringItems) != 0 || len(failed.PotentialDuplicates) != 0 {
		t.Fatalf("expected no baseline data after failure")
	}
	if failed.TotalSpent != ok.TotalSpent {
		t.Fatalf("report body changed after baseline failure")
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	parent := tx("p", day(2025, 3, 10), -3000, "Store", "", models.SplitCategory)
	parent.Subtransactions = []models.SubTransaction{{ID: "s1", Amount: -3000, CategoryID: "a", CategoryName: "A"}}
	current := []models.Transaction{parent, tx("2", day(2025, 3, 2), -1000, "B", "b", "B")}

	first := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current})
	first.Categories[0].Transactions[0].PayeeName = "changed"

	second := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current})
	if second.Categories[0].Transactions[0].PayeeName == "changed" {
		t.Fatalf("reports share transaction storage")
	}
	if current[0].Subtransactions == nil {
		t.Fatalf("input split parent was modified")
	}
}
