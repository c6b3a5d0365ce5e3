// Package render produces downloadable renditions of a report: a
// self-contained HTML page and an XLSX workbook.
package render

import (
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/dto"
)

const (
	chartSlices  = 5
	otherLabel   = "Other"
	unknownPayee = "Unknown payee"
)

// ChartColors colour the pie slices in order.
var ChartColors = []string{"#FCD34D", "#10B981", "#EC4899", "#3B82F6", "#8B5CF6", "#F97316"}

// CardColors cycle over the category cards.
var CardColors = []string{"#22c55e", "#ec4899", "#c084fc", "#fb923c", "#2dd4bf"}

type slice struct {
	Name  string
	Value float64
	Color string
	// From and To are cumulative percentages of the pie.
	From, To float64
}

// pieSlices returns the five largest categories plus an "Other" slice
// when the remainder is positive.
func pieSlices(categories []dto.CategorySpending) []slice {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b dto.CategorySpending) int {
		switch {
		case a.TotalAmount > b.TotalAmount:
			return -1
		case a.TotalAmount < b.TotalAmount:
			return 1
		}
		return 0
	})

	var out []slice
	other := decimal.Zero
	for i, c := range sorted {
		if i < chartSlices {
			out = append(out, slice{Name: c.CategoryName, Value: c.TotalAmount})
			continue
		}
		other = other.Add(decimal.NewFromFloat(c.TotalAmount))
	}
	if other.IsPositive() {
		out = append(out, slice{Name: otherLabel, Value: other.InexactFloat64()})
	}

	// Net-refund categories keep their value for the legend but take no arc.
	total := 0.0
	for _, s := range out {
		total += max(s.Value, 0)
	}
	at := 0.0
	for i := range out {
		out[i].Color = ChartColors[i%len(ChartColors)]
		if total > 0 {
			out[i].From = at
			at += max(out[i].Value, 0) / total * 100
			out[i].To = at
		}
	}
	return out
}

func conicGradient(pie []slice) string {
	if len(pie) == 0 || pie[len(pie)-1].To == 0 {
		return "#e5e7eb"
	}
	parts := make([]string, 0, len(pie))
	for _, s := range pie {
		parts = append(parts, fmt.Sprintf("%s %.2f%% %.2f%%", s.Color, s.From, s.To))
	}
	return "conic-gradient(" + strings.Join(parts, ", ") + ")"
}

type payeeTotal struct {
	Name  string
	Total float64
}

// payeeTotals sums a category's signed spend per payee, largest first.
func payeeTotals(c dto.CategorySpending) []payeeTotal {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, tx := range c.Transactions {
		name := tx.PayeeName
		if name == "" {
			name = unknownPayee
		}
		if _, ok := sums[name]; !ok {
			order = append(order, name)
		}
		sums[name] = sums[name].Add(tx.Amount.Spend())
	}

	out := make([]payeeTotal, 0, len(order))
	for _, name := range order {
		out = append(out, payeeTotal{Name: name, Total: sums[name].InexactFloat64()})
	}
	slices.SortStableFunc(out, func(a, b payeeTotal) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// dateRange renders "1 Mar - 31 Mar"; unparseable dates are shown as-is.
func dateRange(start, end string) string {
	return shortDate(start) + " - " + shortDate(end)
}

func shortDate(s string) string {
	d, err := civil.ParseDate(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d %s", d.Day, d.Month.String()[:3])
}
