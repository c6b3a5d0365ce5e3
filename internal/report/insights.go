package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/money"
)

const (
	topMerchantCount   = 5
	merchantShareCount = 3
	moverCount         = 3
	anomalyCount       = 5
	volatilityCount    = 6
	recurringCount     = 5
	topDayCount        = 2
	maxAlerts          = 4

	lowSavingsRate   = 10
	highWeekendShare = 45
)

// DayOfWeekSpend sums the signed spend of every dated line item per weekday,
// Sunday first.
func DayOfWeekSpend(categories []dto.CategorySpending) []float64 {
	sums := make([]decimal.Decimal, 7)
	for _, c := range categories {
		for i := range c.Transactions {
			tx := &c.Transactions[i]
			if !tx.Date.IsValid() {
				continue
			}
			wd := tx.Date.Weekday()
			sums[wd] = sums[wd].Add(tx.Amount.Spend())
		}
	}
	return toFloats(sums)
}

type spendItem struct {
	category string
	tx       *models.Transaction
	amount   decimal.Decimal
}

// spendItems lists the outflow line items of every category.
func spendItems(categories []dto.CategorySpending) []spendItem {
	var items []spendItem
	for _, c := range categories {
		for i := range c.Transactions {
			tx := &c.Transactions[i]
			if tx.Amount >= 0 {
				continue
			}
			items = append(items, spendItem{category: c.CategoryName, tx: tx, amount: tx.Amount.Abs()})
		}
	}
	return items
}

// computeInsights derives every insight from an otherwise complete report.
// It is the only place insights are computed.
func computeInsights(data *dto.ReportData, cur money.Currency) *dto.Insights {
	total := data.TotalSpent
	items := spendItems(data.Categories)

	ins := &dto.Insights{
		SpendTxCount: len(items),
	}

	if len(data.Categories) > 0 {
		top := data.Categories[0]
		ins.TopCategory = &dto.CategoryRef{
			CategoryID:   top.CategoryID,
			CategoryName: top.CategoryName,
			TotalAmount:  top.TotalAmount,
		}
		ins.TopCategoryShare = percentOf(top.TotalAmount, total)
	}

	ins.TopMerchants = topMerchants(items)
	var topThree float64
	for i, m := range ins.TopMerchants {
		if i == merchantShareCount {
			break
		}
		topThree += m.Amount
	}
	ins.TopMerchantShare = percentOf(topThree, total)

	var weekend decimal.Decimal
	for _, it := range items {
		if it.tx.Date.IsValid() && calendar.IsWeekend(it.tx.Date) {
			weekend = weekend.Add(it.amount)
		}
	}
	ins.WeekendShare = percentOf(weekend.InexactFloat64(), total)

	ins.Pulse = percentOf(total, data.HistoricalMonthlyAverage)
	ins.MoversUp, ins.MoversDown = movers(data.CategoryTrends)

	if n := len(data.ComparisonData); n > 0 {
		last := data.ComparisonData[n-1]
		ins.YearlyDelta = last.Current - last.Previous
		if last.Previous > 0 {
			ins.YearlyDeltaPct = (last.Current - last.Previous) / last.Previous * 100
		}
	}

	ins.Anomalies, ins.DailyMean, ins.DailyStd = anomalies(items)
	ins.CategoryVolatility = volatility(data.Categories)
	ins.RecurringInsights = recurringInsights(data.RecurringItems)
	ins.DayOfWeekTotals, ins.TopDays = weekdays(items)
	ins.Alerts = alerts(data, ins)
	ins.Summary = summary(data, ins, cur)
	return ins
}

func topMerchants(items []spendItem) []dto.MerchantTotal {
	sums := map[string]decimal.Decimal{}
	for _, it := range items {
		name := it.tx.PayeeName
		if name == "" {
			name = unknownPayee
		}
		sums[name] = sums[name].Add(it.amount)
	}
	out := make([]dto.MerchantTotal, 0, len(sums))
	for name, amt := range sums {
		out = append(out, dto.MerchantTotal{Name: name, Amount: amt.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topMerchantCount {
		out = out[:topMerchantCount]
	}
	return out
}

func movers(trends map[string]dto.CategoryTrend) ([]dto.Mover, []dto.Mover) {
	names := make([]string, 0, len(trends))
	for name := range trends {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]dto.Mover, 0, len(names))
	for _, name := range names {
		all = append(all, dto.Mover{Name: name, Change: trends[name].ChangePercentage})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Change > all[j].Change
	})

	up := append([]dto.Mover{}, all[:min(moverCount, len(all))]...)
	down := make([]dto.Mover, 0, moverCount)
	for i := len(all) - 1; i >= 0 && i >= len(all)-moverCount; i-- {
		down = append(down, all[i])
	}
	return up, down
}

// anomalies buckets spend by calendar day and returns the days strictly
// above mean + 2 standard deviations, largest first.
func anomalies(items []spendItem) ([]dto.AnomalyDay, float64, float64) {
	days := map[string]decimal.Decimal{}
	perCategory := map[string]map[string]decimal.Decimal{}
	for _, it := range items {
		if !it.tx.Date.IsValid() {
			continue
		}
		key := it.tx.Date.String()
		days[key] = days[key].Add(it.amount)
		if perCategory[key] == nil {
			perCategory[key] = map[string]decimal.Decimal{}
		}
		perCategory[key][it.category] = perCategory[key][it.category].Add(it.amount)
	}

	totals := make(map[string]float64, len(days))
	vals := make([]float64, 0, len(days))
	for k, v := range days {
		f := v.InexactFloat64()
		totals[k] = f
		vals = append(vals, f)
	}
	sort.Float64s(vals)
	mean, std := meanStd(vals)
	threshold := mean + 2*std

	out := []dto.AnomalyDay{}
	for date, amount := range totals {
		if amount > threshold {
			out = append(out, dto.AnomalyDay{
				Date:        date,
				Amount:      amount,
				TopCategory: topKey(perCategory[date]),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Date < out[j].Date
	})
	if len(out) > anomalyCount {
		out = out[:anomalyCount]
	}
	return out, mean, std
}

func topKey(sums map[string]decimal.Decimal) string {
	best := ""
	var bestAmt decimal.Decimal
	for name, amt := range sums {
		if best == "" || amt.GreaterThan(bestAmt) || (amt.Equal(bestAmt) && name < best) {
			best, bestAmt = name, amt
		}
	}
	if best == "" {
		return unknownPayee
	}
	return best
}

// volatility ranks categories by the coefficient of variation of their
// daily spend.
func volatility(categories []dto.CategorySpending) []dto.CategoryVolatility {
	out := make([]dto.CategoryVolatility, 0, len(categories))
	for _, c := range categories {
		days := map[string]decimal.Decimal{}
		for i := range c.Transactions {
			tx := &c.Transactions[i]
			if tx.Amount >= 0 || !tx.Date.IsValid() {
				continue
			}
			key := tx.Date.String()
			days[key] = days[key].Add(tx.Amount.Abs())
		}
		vals := make([]float64, 0, len(days))
		for _, v := range days {
			vals = append(vals, v.InexactFloat64())
		}
		sort.Float64s(vals)
		mean, std := meanStd(vals)
		var cv float64
		if mean > 0 {
			cv = std / mean
		}
		out = append(out, dto.CategoryVolatility{Name: c.CategoryName, Volatility: cv, Mean: mean})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Volatility > out[j].Volatility
	})
	if len(out) > volatilityCount {
		out = out[:volatilityCount]
	}
	return out
}

func recurringInsights(items []dto.RecurringItem) []dto.RecurringInsight {
	out := make([]dto.RecurringInsight, 0, recurringCount)
	for i, r := range items {
		if i == recurringCount {
			break
		}
		out = append(out, dto.RecurringInsight{
			Payee:   r.Payee,
			Monthly: r.AverageAmount,
			Annual:  r.AverageAmount * 12,
		})
	}
	return out
}

func weekdays(items []spendItem) ([]float64, []dto.WeekdayTotal) {
	sums := make([]decimal.Decimal, 7)
	for _, it := range items {
		if !it.tx.Date.IsValid() {
			continue
		}
		wd := it.tx.Date.Weekday()
		sums[wd] = sums[wd].Add(it.amount)
	}
	totals := toFloats(sums)

	ranked := make([]dto.WeekdayTotal, 7)
	for i, v := range totals {
		ranked[i] = dto.WeekdayTotal{Weekday: i, Day: time.Weekday(i).String(), Value: v}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return totals, ranked[:topDayCount]
}

func alerts(data *dto.ReportData, ins *dto.Insights) []dto.Alert {
	var savings float64
	if data.CashFlowStats != nil {
		savings = data.CashFlowStats.SavingsRate
	}

	out := make([]dto.Alert, 0, maxAlerts)
	if savings < lowSavingsRate {
		out = append(out, dto.Alert{
			Title:   "Low savings",
			Message: "Savings rate is below 10%. Consider small cuts.",
			Tone:    dto.ToneWarn,
		})
	} else {
		out = append(out, dto.Alert{
			Title:   "Healthy savings",
			Message: "Savings rate looks balanced.",
			Tone:    dto.ToneGood,
		})
	}
	if ins.WeekendShare > highWeekendShare {
		out = append(out, dto.Alert{
			Title:   "Weekend heavy",
			Message: "Weekend spending makes up a large part of the total.",
			Tone:    dto.ToneWarn,
		})
	}
	if n := len(data.PotentialDuplicates); n > 0 {
		out = append(out, dto.Alert{
			Title:   "Possible duplicates",
			Message: fmt.Sprintf("%d similar transactions found.", n),
			Tone:    dto.ToneWarn,
		})
	}
	if n := len(ins.Anomalies); n > 0 {
		out = append(out, dto.Alert{
			Title:   "Unusual days",
			Message: fmt.Sprintf("%d unusual spending days detected.", n),
			Tone:    dto.ToneWarn,
		})
	}
	if len(out) > maxAlerts {
		out = out[:maxAlerts]
	}
	return out
}

func summary(data *dto.ReportData, ins *dto.Insights, cur money.Currency) string {
	top := "undetermined"
	if ins.TopCategory != nil {
		top = ins.TopCategory.CategoryName
	}
	var savings float64
	if data.CashFlowStats != nil {
		savings = data.CashFlowStats.SavingsRate
	}
	return strings.Join([]string{
		fmt.Sprintf("You spent %s this period.", cur.FormatAmount(data.TotalSpent)),
		fmt.Sprintf("The largest category is %s with a %s share.", top, cur.FormatPercent(ins.TopCategoryShare, 0)),
		fmt.Sprintf("Savings rate is %s.", cur.FormatPercent(savings, 0)),
	}, " ")
}

func toFloats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.InexactFloat64()
	}
	return out
}
