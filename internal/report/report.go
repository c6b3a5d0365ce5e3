// Package report turns fetched transactions into a ReportData value. Every
// function here is pure: the same input always yields an equal report and
// nothing is shared between two reports.
package report

import (
	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/money"
)

const (
	uncategorizedID   = "uncategorized"
	uncategorizedName = "Uncategorized"
	unknownPayee      = "Unknown"
)

// Comparison is the comparable prior period of a report.
type Comparison struct {
	Mode     string
	Config   dto.ComparisonConfig
	Previous []models.Transaction
}

type Input struct {
	Start   civil.Date
	End     civil.Date
	Current []models.Transaction

	// Comparison is nil for presets without a comparable prior period.
	Comparison *Comparison

	// Historical covers the three months before Start. HistoricalFailed
	// marks a failed fetch; the baseline then degrades to zero values.
	Historical       []models.Transaction
	HistoricalFailed bool

	Currency money.Currency
}

func Build(in Input) *dto.ReportData {
	categories, flow := buildCategories(in.Current)

	data := &dto.ReportData{
		TotalSpent:     flow.spent.InexactFloat64(),
		StartDate:      in.Start.String(),
		EndDate:        in.End.String(),
		Currency:       in.Currency.Code,
		Categories:     categories,
		TotalIncome:    flow.income.InexactFloat64(),
		TotalExpense:   flow.expense.InexactFloat64(),
		CashFlowStats:  flow.stats(),
		CategoryTrends: buildTrends(categories, previousOf(in.Comparison)),
	}

	if in.Comparison != nil {
		cfg := in.Comparison.Config
		cfg.Type = in.Comparison.Mode
		data.ComparisonConfig = &cfg
		data.ComparisonData = buildComparison(in.Comparison.Mode, in.Start, in.Current, in.Comparison.Previous)
	}

	if in.HistoricalFailed {
		data.RecurringItems = []dto.RecurringItem{}
		data.PotentialDuplicates = []dto.PotentialDuplicate{}
	} else {
		data.HistoricalMonthlyAverage = historicalAverage(in.Historical)
		data.RecurringItems = detectRecurring(in.Historical, in.Current)
		data.PotentialDuplicates = detectDuplicates(in.Current)
	}

	data.DayOfWeekStats = DayOfWeekSpend(categories)
	data.Insights = computeInsights(data, in.Currency)
	return data
}

func previousOf(c *Comparison) []models.Transaction {
	if c == nil {
		return nil
	}
	return c.Previous
}
