package dto

import (
	"github.com/GregMSThompson/budget-report/internal/models"
)

// Report presets.
const (
	PresetThisMonth = "thisMonth"
	PresetPrevMonth = "prevMonth"
	PresetThisYear  = "thisYear"
	PresetLastYear  = "lastYear"
	PresetCustom    = "custom"
)

// Comparison series granularity.
const (
	ComparisonDaily   = "daily"
	ComparisonMonthly = "monthly"
)

// ReportQuery selects the period and filters of one report.
type ReportQuery struct {
	BudgetID  string
	AccountID string
	Flag      string
	Preset    string
	Start     string
	End       string
}

// ReportData is the immutable result of one report generation. Shared
// reports decoded from a link only carry totals, dates, categories with
// their top payees, and dayOfWeekStats.
type ReportData struct {
	TotalSpent               float64                  `json:"totalSpent"`
	StartDate                string                   `json:"startDate"`
	EndDate                  string                   `json:"endDate"`
	Currency                 string                   `json:"currency,omitempty"`
	Categories               []CategorySpending       `json:"categories"`
	ComparisonData           []ComparisonDataPoint    `json:"comparisonData,omitempty"`
	ComparisonConfig         *ComparisonConfig        `json:"comparisonConfig,omitempty"`
	DayOfWeekStats           []float64                `json:"dayOfWeekStats,omitempty"`
	TotalIncome              float64                  `json:"totalIncome"`
	TotalExpense             float64                  `json:"totalExpense"`
	HistoricalMonthlyAverage float64                  `json:"historicalMonthlyAverage"`
	CashFlowStats            *CashFlowStats           `json:"cashFlowStats,omitempty"`
	CategoryTrends           map[string]CategoryTrend `json:"categoryTrends,omitempty"`
	RecurringItems           []RecurringItem          `json:"recurringItems,omitempty"`
	PotentialDuplicates      []PotentialDuplicate     `json:"potentialDuplicates,omitempty"`
	Insights                 *Insights                `json:"insights,omitempty"`
	Shared                   bool                     `json:"shared,omitempty"`
}

type CategorySpending struct {
	CategoryID   string               `json:"categoryId"`
	CategoryName string               `json:"categoryName"`
	TotalAmount  float64              `json:"totalAmount"`
	Transactions []models.Transaction `json:"transactions"`
}

type ComparisonDataPoint struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

type ComparisonConfig struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	CurrentLabel  string `json:"currentLabel"`
	PreviousLabel string `json:"previousLabel"`
}

type CategoryTrend struct {
	PreviousAmount   float64 `json:"previousAmount"`
	ChangePercentage float64 `json:"changePercentage"`
}

type RecurringItem struct {
	Payee         string  `json:"payee"`
	AverageAmount float64 `json:"averageAmount"`
	Count         int     `json:"count"`
	LastDate      string  `json:"lastDate"`
}

type PotentialDuplicate struct {
	Payee  string  `json:"payee"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type CashFlowStats struct {
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Net         float64 `json:"net"`
	SavingsRate float64 `json:"savingsRate"`
}

// Insights is derived once by the aggregator; readers never recompute it.
type Insights struct {
	TopCategory        *CategoryRef         `json:"topCategory,omitempty"`
	TopCategoryShare   float64              `json:"topCategoryShare"`
	TopMerchants       []MerchantTotal      `json:"topMerchants"`
	TopMerchantShare   float64              `json:"topMerchantShare"`
	WeekendShare       float64              `json:"weekendShare"`
	Pulse              float64              `json:"pulse"`
	MoversUp           []Mover              `json:"moversUp"`
	MoversDown         []Mover              `json:"moversDown"`
	SpendTxCount       int                  `json:"spendTxCount"`
	YearlyDelta        float64              `json:"yearlyDelta"`
	YearlyDeltaPct     float64              `json:"yearlyDeltaPct"`
	DailyMean          float64              `json:"dailyMean"`
	DailyStd           float64              `json:"dailyStd"`
	Anomalies          []AnomalyDay         `json:"anomalies"`
	CategoryVolatility []CategoryVolatility `json:"categoryVolatility"`
	RecurringInsights  []RecurringInsight   `json:"recurringInsights"`
	DayOfWeekTotals    []float64            `json:"dayOfWeekTotals"`
	TopDays            []WeekdayTotal       `json:"topDays"`
	Alerts             []Alert              `json:"alerts"`
	Summary            string               `json:"summary"`
}

type CategoryRef struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	TotalAmount  float64 `json:"totalAmount"`
}

type MerchantTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Mover struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

type AnomalyDay struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	TopCategory string  `json:"topCategory"`
}

type CategoryVolatility struct {
	Name       string  `json:"name"`
	Volatility float64 `json:"volatility"`
	Mean       float64 `json:"mean"`
}

type RecurringInsight struct {
	Payee   string  `json:"payee"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

type WeekdayTotal struct {
	Weekday int     `json:"weekday"`
	Day     string  `json:"day"`
	Value   float64 `json:"value"`
}

// Alert tones.
const (
	ToneGood = "good"
	ToneWarn = "warn"
)

type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Tone    string `json:"tone"`
}

// ShareLink is an encoded report and the URL that opens it read-only.
type ShareLink struct {
	Data string `json:"data"`
	URL  string `json:"url"`
}
