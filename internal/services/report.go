package services

import (
	"bytes"
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/codec"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/money"
	"github.com/GregMSThompson/budget-report/internal/render"
	"github.com/GregMSThompson/budget-report/internal/report"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type reportClient interface {
	BudgetSettings(ctx context.Context, token, budgetID string) (*models.BudgetSettings, error)
	ListTransactions(ctx context.Context, token, budgetID string, f dto.TransactionFilter) ([]models.Transaction, error)
}

type reportService struct {
	tokens        tokenSource
	client        reportClient
	publicBaseURL string
	loc           *time.Location
	clockNow      func() time.Time
}

func NewReportService(tokens tokenSource, client reportClient, publicBaseURL string, loc *time.Location) *reportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		tokens:        tokens,
		client:        client,
		publicBaseURL: publicBaseURL,
		loc:           loc,
		clockNow:      time.Now,
	}
}

type period struct {
	start, end civil.Date
	comparison *comparisonPeriod
}

type comparisonPeriod struct {
	mode       string
	config     dto.ComparisonConfig
	start, end civil.Date
}

// resolvePeriod turns a preset into an inclusive date range and, for the
// month and year-to-date presets, the comparable prior period.
func (s *reportService) resolvePeriod(q dto.ReportQuery) (period, error) {
	today := calendar.Today(s.clockNow(), s.loc)

	switch q.Preset {
	case "", dto.PresetThisMonth:
		start := calendar.MonthStart(today)
		prevStart, prevEnd := calendar.PreviousMonth(start)
		return period{
			start: start,
			end:   calendar.MonthEnd(today),
			comparison: &comparisonPeriod{
				mode: dto.ComparisonDaily,
				config: dto.ComparisonConfig{
					Title:         "Monthly cumulative",
					Subtitle:      "This month vs last month",
					CurrentLabel:  "This month",
					PreviousLabel: "Last month",
				},
				start: prevStart,
				end:   prevEnd,
			},
		}, nil

	case dto.PresetPrevMonth:
		start, end := calendar.PreviousMonth(today)
		prevStart, prevEnd := calendar.PreviousMonth(start)
		return period{
			start: start,
			end:   end,
			comparison: &comparisonPeriod{
				mode: dto.ComparisonDaily,
				config: dto.ComparisonConfig{
					Title:         "Monthly cumulative",
					Subtitle:      "Last month vs the month before",
					CurrentLabel:  "Last month",
					PreviousLabel: "Month before",
				},
				start: prevStart,
				end:   prevEnd,
			},
		}, nil

	case dto.PresetThisYear:
		start := civil.Date{Year: today.Year, Month: time.January, Day: 1}
		prevStart, prevEnd := calendar.PreviousYear(start)
		return period{
			start: start,
			end:   today,
			comparison: &comparisonPeriod{
				mode: dto.ComparisonMonthly,
				config: dto.ComparisonConfig{
					Title:         "Yearly cumulative",
					Subtitle:      "This year vs last year",
					CurrentLabel:  "This year",
					PreviousLabel: "Last year",
				},
				start: prevStart,
				end:   prevEnd,
			},
		}, nil

	case dto.PresetLastYear:
		return period{start: today.AddYears(-1), end: today}, nil

	case dto.PresetCustom:
		if q.Start == "" || q.End == "" {
			return period{}, errs.NewValidationError("custom range requires start and end")
		}
		start, err := calendar.Parse(q.Start)
		if err != nil {
			return period{}, errs.NewValidationError("invalid start date")
		}
		end, err := calendar.Parse(q.End)
		if err != nil {
			return period{}, errs.NewValidationError("invalid end date")
		}
		if end.Before(start) {
			return period{}, errs.NewValidationError("start date must not be after end date")
		}
		return period{start: start, end: end}, nil
	}

	return period{}, errs.NewValidationError("unknown preset: " + q.Preset)
}

func (s *reportService) currency(ctx context.Context, token, budgetID string) money.Currency {
	settings, err := s.client.BudgetSettings(ctx, token, budgetID)
	if err != nil {
		logger.FromContext(ctx).Warn("budget settings unavailable, using default currency", "error", err)
		return money.DefaultCurrency
	}
	return money.FromBudget(settings.CurrencyFormat)
}

func (s *reportService) generate(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ReportData, money.Currency, error) {
	if q.BudgetID == "" {
		return nil, money.Currency{}, errs.NewValidationError("budget id required")
	}
	p, err := s.resolvePeriod(q)
	if err != nil {
		return nil, money.Currency{}, err
	}
	token, err := s.tokens.Token(ctx, sessionID)
	if err != nil {
		return nil, money.Currency{}, err
	}

	log, ctx := logger.With(ctx, "budget_id", q.BudgetID, "preset", q.Preset, "start", p.start.String(), "end", p.end.String())

	cur := s.currency(ctx, token, q.BudgetID)
	filter := func(start, end civil.Date) dto.TransactionFilter {
		return dto.TransactionFilter{AccountID: q.AccountID, Start: start, End: end, Flag: q.Flag}
	}

	current, err := s.client.ListTransactions(ctx, token, q.BudgetID, filter(p.start, p.end))
	if err != nil {
		return nil, money.Currency{}, err
	}

	in := report.Input{
		Start:    p.start,
		End:      p.end,
		Current:  current,
		Currency: cur,
	}

	if c := p.comparison; c != nil {
		previous, err := s.client.ListTransactions(ctx, token, q.BudgetID, filter(c.start, c.end))
		if err != nil {
			return nil, money.Currency{}, err
		}
		in.Comparison = &report.Comparison{Mode: c.mode, Config: c.config, Previous: previous}
	}

	histStart := p.start.AddMonths(-3)
	histEnd := p.start.AddDays(-1)
	historical, err := s.client.ListTransactions(ctx, token, q.BudgetID, filter(histStart, histEnd))
	if err != nil {
		log.Warn("historical fetch failed, baseline disabled", "error", err)
		in.HistoricalFailed = true
	} else {
		in.Historical = historical
	}

	data := report.Build(in)
	log.Info("report generated", "transactions", len(current), "categories", len(data.Categories))
	return data, cur, nil
}

func (s *reportService) GenerateReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ReportData, error) {
	data, _, err := s.generate(ctx, sessionID, q)
	return data, err
}

// ShareReport generates a report and encodes it into a read-only link.
func (s *reportService) ShareReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ShareLink, error) {
	data, _, err := s.generate(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.Encode(data)
	if err != nil {
		return nil, err
	}
	return &dto.ShareLink{Data: encoded, URL: s.publicBaseURL + "/?data=" + encoded}, nil
}

// DecodeShared reads a shared link payload. No upstream call is made.
func (s *reportService) DecodeShared(ctx context.Context, encoded string) (*dto.ReportData, error) {
	data, err := codec.Decode(encoded)
	if err != nil {
		logger.FromContext(ctx).Info("shared link rejected", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *reportService) RenderHTML(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error) {
	data, cur, err := s.generate(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	return htmlExport(data, cur)
}

func (s *reportService) RenderXLSX(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error) {
	data, cur, err := s.generate(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.XLSX(&buf, data, cur); err != nil {
		return nil, err
	}
	return &dto.Export{
		Filename:    "spending-" + data.EndDate + ".xlsx",
		ContentType: xlsxContentType,
		Body:        buf.Bytes(),
	}, nil
}

// RenderSharedHTML renders a decoded link. currencyCode may be empty.
func (s *reportService) RenderSharedHTML(ctx context.Context, encoded, currencyCode string) (*dto.Export, error) {
	data, err := s.DecodeShared(ctx, encoded)
	if err != nil {
		return nil, err
	}
	cur := money.NewCurrency(currencyCode, "")
	data.Currency = cur.Code
	return htmlExport(data, cur)
}

func htmlExport(data *dto.ReportData, cur money.Currency) (*dto.Export, error) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, data, cur); err != nil {
		return nil, err
	}
	return &dto.Export{
		Filename:    "spending-" + data.EndDate + ".html",
		ContentType: htmlContentType,
		Body:        buf.Bytes(),
	}, nil
}
