package schedule

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
)

const next30Days = 30

// Palette colours future category breakdowns in first-seen order.
var Palette = []string{"#0075FF", "#00C853", "#FF3B30", "#FF9500", "#AF52DE", "#5856D6", "#FF2D55", "#34C759", "#5AC8FA"}

type monthAcc struct {
	key   string
	label string
	total decimal.Decimal
	cats  []*categoryAcc
	byID  map[string]*categoryAcc
}

type categoryAcc struct {
	id     string
	name   string
	color  string
	amount decimal.Decimal
	txs    []dto.ExpandedScheduledTransaction
}

// BuildView groups the outflow occurrences by month and summarises them.
func BuildView(occ []Occurrence, today civil.Date, months int) dto.FutureView {
	view := dto.FutureView{
		MonthsAhead: months,
		Months:      []dto.FuturePaymentMonth{},
		Next30Days:  []dto.ExpandedScheduledTransaction{},
		Stats:       dto.FutureStats{MaxMonth: "-"},
	}

	accs := map[string]*monthAcc{}
	var keys []string
	var next30 []Occurrence
	limit := today.AddDays(next30Days)

	for _, o := range occ {
		if o.Amount >= 0 {
			continue
		}
		view.PendingCount++
		if o.Recurring() {
			view.Stats.Recurring++
		} else {
			view.Stats.OneTime++
		}
		if calendar.Within(o.Date, today, limit) {
			next30 = append(next30, o)
		}

		key := calendar.MonthKey(o.Date)
		m, ok := accs[key]
		if !ok {
			m = &monthAcc{
				key:   key,
				label: fmt.Sprintf("%s %d", o.Date.Month, o.Date.Year),
				byID:  map[string]*categoryAcc{},
			}
			accs[key] = m
			keys = append(keys, key)
		}
		amt := o.Amount.Abs()
		m.total = m.total.Add(amt)

		id := o.CategoryID
		if id == "" {
			id = "uncategorized"
		}
		c, ok := m.byID[id]
		if !ok {
			name := o.CategoryName
			if name == "" {
				name = "Uncategorized"
			}
			c = &categoryAcc{id: id, name: name, color: Palette[len(m.cats)%len(Palette)]}
			m.byID[id] = c
			m.cats = append(m.cats, c)
		}
		c.amount = c.amount.Add(amt)
		c.txs = append(c.txs, o.DTO())
	}

	sort.Strings(keys)
	var total, maxTotal decimal.Decimal
	for _, key := range keys {
		m := accs[key]
		month := dto.FuturePaymentMonth{
			Month:      m.key,
			Label:      m.label,
			Total:      m.total.InexactFloat64(),
			Categories: make([]dto.FutureCategoryBreakdown, 0, len(m.cats)),
		}
		for _, c := range m.cats {
			month.Categories = append(month.Categories, dto.FutureCategoryBreakdown{
				CategoryID:   c.id,
				CategoryName: c.name,
				Amount:       c.amount.InexactFloat64(),
				Color:        c.color,
				Transactions: c.txs,
			})
		}
		sort.SliceStable(month.Categories, func(i, j int) bool {
			return month.Categories[i].Amount > month.Categories[j].Amount
		})
		view.Months = append(view.Months, month)

		total = total.Add(m.total)
		if m.total.GreaterThan(maxTotal) {
			maxTotal = m.total
			view.Stats.MaxMonth = m.label
		}
	}

	view.Stats.Total = total.InexactFloat64()
	view.Stats.MaxMonthTotal = maxTotal.InexactFloat64()
	if len(keys) > 0 {
		view.Stats.MonthlyAvg = total.Div(decimal.NewFromInt(int64(len(keys)))).InexactFloat64()
	}

	sort.SliceStable(next30, func(i, j int) bool {
		return next30[i].Date.Before(next30[j].Date)
	})
	var nextTotal decimal.Decimal
	for _, o := range next30 {
		view.Next30Days = append(view.Next30Days, o.DTO())
		nextTotal = nextTotal.Add(o.Amount.Abs())
	}
	view.Next30Total = nextTotal.InexactFloat64()
	return view
}
