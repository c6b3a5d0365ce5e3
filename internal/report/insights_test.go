package report

import (
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/money"
)

func spendOn(dates []int, amount models.Milliunits) []spendItem {
	var items []spendItem
	for _, d := range dates {
		item := tx("x", day(2025, 3, d), -amount, "P", "c", "C")
		items = append(items, spendItem{category: item.CategoryName, tx: &item, amount: item.Amount.Abs()})
	}
	return items
}

func TestAnomaliesStrictThreshold(t *testing.T) {
	// mean 110, population std 20: threshold is exactly 150.
	var items []spendItem
	for d := 1; d <= 4; d++ {
		items = append(items, spendOn([]int{d}, 100000)...)
	}
	items = append(items, spendOn([]int{5}, 150000)...)

	got, mean, std := anomalies(items)
	if mean != 110 || std != 20 {
		t.Fatalf("unexpected stats mean=%v std=%v", mean, std)
	}
	if len(got) != 0 {
		t.Fatalf("day on the threshold must not be an anomaly: %+v", got)
	}
}

func TestAnomaliesFlagsOutlier(t *testing.T) {
	var items []spendItem
	for d := 1; d <= 10; d++ {
		items = append(items, spendOn([]int{d}, 100000)...)
	}
	spike := tx("s", day(2025, 3, 20), -1000000, "Jeweller", "g", "Gifts")
	items = append(items, spendItem{category: "Gifts", tx: &spike, amount: spike.Amount.Abs()})

	got, _, _ := anomalies(items)
	if len(got) != 1 {
		t.Fatalf("expected one anomaly, got %+v", got)
	}
	if got[0].Date != "2025-03-20" || got[0].Amount != 1000 || got[0].TopCategory != "Gifts" {
		t.Fatalf("unexpected anomaly %+v", got[0])
	}
}

func TestWeekendShareAllWeekend(t *testing.T) {
	// 2025-03-01 is a Saturday, 2025-03-02 a Sunday.
	current := []models.Transaction{
		tx("1", day(2025, 3, 1), -40000, "A", "a", "A"),
		tx("2", day(2025, 3, 2), -60000, "B", "b", "B"),
		tx("3", day(2025, 3, 8), -1000, "C", "a", "A"),
	}
	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current})
	if !almostEqual(got.Insights.WeekendShare, 100) {
		t.Fatalf("expected 100%% weekend share, got %v", got.Insights.WeekendShare)
	}
}

func TestTopMerchants(t *testing.T) {
	current := []models.Transaction{
		tx("1", day(2025, 3, 3), -50000, "A", "a", "A"),
		tx("2", day(2025, 3, 3), -40000, "B", "a", "A"),
		tx("3", day(2025, 3, 3), -30000, "C", "a", "A"),
		tx("4", day(2025, 3, 3), -20000, "D", "a", "A"),
		tx("5", day(2025, 3, 3), -5000, "Zed", "a", "A"),
		tx("6", day(2025, 3, 3), -5000, "", "a", "A"),
		tx("7", day(2025, 3, 3), -1000, "F", "a", "A"),
		tx("8", day(2025, 3, 3), 10000, "A", "a", "A"),
	}
	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current}).Insights

	if len(got.TopMerchants) != 5 {
		t.Fatalf("expected 5 merchants, got %d", len(got.TopMerchants))
	}
	if got.TopMerchants[0].Name != "A" || got.TopMerchants[0].Amount != 50 {
		t.Fatalf("unexpected top merchant %+v", got.TopMerchants[0])
	}
	if got.TopMerchants[4].Name != unknownPayee {
		t.Fatalf("expected tie broken by name, got %+v", got.TopMerchants[4])
	}
	// total spent 141 after the 10 refund; top three = 120.
	if !almostEqual(got.TopMerchantShare, 120.0/141*100) {
		t.Fatalf("unexpected merchant share %v", got.TopMerchantShare)
	}
	if got.SpendTxCount != 7 {
		t.Fatalf("unexpected spend count %d", got.SpendTxCount)
	}
}

func TestMovers(t *testing.T) {
	trends := map[string]dto.CategoryTrend{
		"A": {ChangePercentage: 50},
		"B": {ChangePercentage: -20},
		"C": {ChangePercentage: 100},
		"D": {ChangePercentage: 0},
		"E": {ChangePercentage: -80},
	}
	up, down := movers(trends)

	wantUp := []string{"C", "A", "D"}
	wantDown := []string{"E", "B", "D"}
	for i := range wantUp {
		if up[i].Name != wantUp[i] {
			t.Fatalf("up[%d] = %q, want %q", i, up[i].Name, wantUp[i])
		}
		if down[i].Name != wantDown[i] {
			t.Fatalf("down[%d] = %q, want %q", i, down[i].Name, wantDown[i])
		}
	}
}

func TestPulseAndYearlyDelta(t *testing.T) {
	data := &dto.ReportData{
		TotalSpent:               300,
		HistoricalMonthlyAverage: 200,
		ComparisonData: []dto.ComparisonDataPoint{
			{Current: 10, Previous: 5},
			{Current: 300, Previous: 250},
		},
		CashFlowStats: &dto.CashFlowStats{},
	}
	got := computeInsights(data, money.DefaultCurrency)
	if got.Pulse != 150 {
		t.Fatalf("unexpected pulse %v", got.Pulse)
	}
	if got.YearlyDelta != 50 || got.YearlyDeltaPct != 20 {
		t.Fatalf("unexpected delta %v %v", got.YearlyDelta, got.YearlyDeltaPct)
	}

	data.HistoricalMonthlyAverage = 0
	data.ComparisonData = nil
	got = computeInsights(data, money.DefaultCurrency)
	if got.Pulse != 0 || got.YearlyDelta != 0 || got.YearlyDeltaPct != 0 {
		t.Fatalf("expected zero pulse and delta, got %+v", got)
	}
}

func TestVolatilityAndWeekdays(t *testing.T) {
	categories := []dto.CategorySpending{
		{CategoryName: "Steady", Transactions: []models.Transaction{
			tx("1", day(2025, 3, 3), -10000, "A", "s", "Steady"),
			tx("2", day(2025, 3, 4), -10000, "A", "s", "Steady"),
		}},
		{CategoryName: "Spiky", Transactions: []models.Transaction{
			tx("3", day(2025, 3, 3), -1000, "B", "k", "Spiky"),
			tx("4", day(2025, 3, 5), -30000, "B", "k", "Spiky"),
		}},
	}

	vol := volatility(categories)
	if vol[0].Name != "Spiky" || vol[1].Volatility != 0 {
		t.Fatalf("unexpected volatility order %+v", vol)
	}

	totals, top := weekdays(spendItems(categories))
	if len(totals) != 7 {
		t.Fatalf("expected 7 weekday totals, got %d", len(totals))
	}
	// 2025-03-05 is a Wednesday.
	if top[0].Weekday != int(time.Wednesday) || top[0].Day != "Wednesday" || top[0].Value != 30 {
		t.Fatalf("unexpected top day %+v", top[0])
	}
	if top[1].Weekday != int(time.Monday) || top[1].Value != 11 {
		t.Fatalf("unexpected second day %+v", top[1])
	}
}

func TestAlertsAndSummary(t *testing.T) {
	current := []models.Transaction{
		tx("1", day(2025, 3, 1), -100000, "A", "a", "Food"),
		tx("2", day(2025, 3, 1), -100000, "A", "a", "Food"),
	}
	got := Build(Input{Start: day(2025, 3, 1), End: day(2025, 3, 31), Current: current, Currency: money.NewCurrency("USD", "")}).Insights

	titles := make([]string, 0, len(got.Alerts))
	for _, a := range got.Alerts {
		titles = append(titles, a.Title)
	}
	joined := strings.Join(titles, ",")
	if joined != "Low savings,Weekend heavy,Possible duplicates" {
		t.Fatalf("unexpected alerts %q", joined)
	}
	if got.Alerts[0].Tone != dto.ToneWarn {
		t.Fatalf("expected warn tone, got %q", got.Alerts[0].Tone)
	}
	if !strings.Contains(got.Summary, "$200") || !strings.Contains(got.Summary, "Food") {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
}

func TestRecurringInsightsProjectAnnual(t *testing.T) {
	items := make([]dto.RecurringItem, 7)
	for i := range items {
		items[i] = dto.RecurringItem{Payee: string(rune('A' + i)), AverageAmount: 100}
	}
	got := recurringInsights(items)
	if len(got) != 5 || got[0].Annual != 1200 || got[0].Monthly != 100 {
		t.Fatalf("unexpected recurring insights %+v", got)
	}
}
