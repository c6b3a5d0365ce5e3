package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

const (
	historicalMonths   = 3
	recurringMinCount  = 3
	recurringMaxCV     = 0.15
	recurringMinAmount = 100
)

func buildTrends(categories []dto.CategorySpending, previous []models.Transaction) map[string]dto.CategoryTrend {
	prev := map[string]decimal.Decimal{}
	for i := range previous {
		tx := &previous[i]
		if tx.IsSplit() || tx.IsTransfer() {
			continue
		}
		spend := tx.Amount.Spend()
		if !spend.IsPositive() {
			continue
		}
		name := tx.CategoryName
		if name == "" {
			name = uncategorizedName
		}
		prev[name] = prev[name].Add(spend)
	}

	trends := make(map[string]dto.CategoryTrend, len(categories))
	for _, c := range categories {
		p := prev[c.CategoryName].InexactFloat64()
		trends[c.CategoryName] = dto.CategoryTrend{
			PreviousAmount:   p,
			ChangePercentage: changePercent(c.TotalAmount, p),
		}
	}
	return trends
}

func changePercent(current, previous float64) float64 {
	switch {
	case previous > 0:
		return (current - previous) / previous * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}

// historicalAverage is the mean monthly outflow over the trailing window.
func historicalAverage(historical []models.Transaction) float64 {
	var sum decimal.Decimal
	for i := range historical {
		tx := &historical[i]
		if tx.Amount >= 0 || tx.IsTransfer() {
			continue
		}
		sum = sum.Add(tx.Amount.Abs())
	}
	return sum.Div(decimal.NewFromInt(historicalMonths)).InexactFloat64()
}

type payeeSamples struct {
	amounts []float64
	last    string
}

func detectRecurring(historical, current []models.Transaction) []dto.RecurringItem {
	groups := map[string]*payeeSamples{}
	collect := func(txs []models.Transaction) {
		for i := range txs {
			tx := &txs[i]
			if !tx.IsSpend() || tx.PayeeName == "" {
				continue
			}
			g, ok := groups[tx.PayeeName]
			if !ok {
				g = &payeeSamples{}
				groups[tx.PayeeName] = g
			}
			g.amounts = append(g.amounts, tx.Amount.Abs().InexactFloat64())
			if d := tx.Date.String(); d > g.last {
				g.last = d
			}
		}
	}
	collect(historical)
	collect(current)

	items := []dto.RecurringItem{}
	for payee, g := range groups {
		if len(g.amounts) < recurringMinCount {
			continue
		}
		mean, std := meanStd(g.amounts)
		if std < mean*recurringMaxCV && mean > recurringMinAmount {
			items = append(items, dto.RecurringItem{
				Payee:         payee,
				AverageAmount: mean,
				Count:         len(g.amounts),
				LastDate:      g.last,
			})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AverageAmount != items[j].AverageAmount {
			return items[i].AverageAmount > items[j].AverageAmount
		}
		return items[i].Payee < items[j].Payee
	})
	return items
}

// detectDuplicates flags the second and later occurrence of the same
// payee, amount and date among the current period's spend.
func detectDuplicates(current []models.Transaction) []dto.PotentialDuplicate {
	type key struct {
		payee  string
		amount models.Milliunits
		date   string
	}
	seen := map[key]int{}
	dups := []dto.PotentialDuplicate{}
	for i := range current {
		tx := &current[i]
		if tx.Amount >= 0 || tx.IsSplit() || tx.IsTransfer() {
			continue
		}
		k := key{payee: tx.PayeeName, amount: tx.Amount, date: tx.Date.String()}
		if seen[k] > 0 {
			payee := tx.PayeeName
			if payee == "" {
				payee = unknownPayee
			}
			dups = append(dups, dto.PotentialDuplicate{
				Payee:  payee,
				Amount: tx.Amount.Abs().InexactFloat64(),
				Date:   k.date,
			})
		}
		seen[k]++
	}
	return dups
}
