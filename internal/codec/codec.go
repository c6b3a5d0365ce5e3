// Package codec packs a report into a short URL-safe string for read-only
// sharing and unpacks it again. The projection is lossy: only totals, the
// period, per-category totals with their top payees and the weekday totals
// survive. Comparison series, recurring items, duplicates and insights are
// dropped to keep links short.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	lzstring "github.com/daku10/go-lz-string"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/report"
)

const (
	maxPayees    = 10
	unknownPayee = "Unknown payee"
	sharedTxID   = "share"
)

// Encode serialises the report as
// [totalSpent, startDate, endDate, [[name, total, [[payee, total]...]]...], dayOfWeek[7]]
// and compresses it with lz-string's URI-component alphabet.
func Encode(data *dto.ReportData) (string, error) {
	if data == nil {
		return "", errors.New("codec: nil report")
	}

	categories := make([]any, 0, len(data.Categories))
	for _, c := range data.Categories {
		payees := topPayees(c.Transactions)
		minPayees := make([]any, 0, len(payees))
		for _, p := range payees {
			minPayees = append(minPayees, []any{p.name, p.total})
		}
		categories = append(categories, []any{c.CategoryName, c.TotalAmount, minPayees})
	}

	dow := data.DayOfWeekStats
	if len(dow) != 7 {
		dow = report.DayOfWeekSpend(data.Categories)
	}

	raw, err := json.Marshal([]any{data.TotalSpent, data.StartDate, data.EndDate, categories, dow})
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	out, err := lzstring.CompressToEncodedURIComponent(string(raw))
	if err != nil {
		return "", fmt.Errorf("codec: compress: %w", err)
	}
	return out, nil
}

type payeeTotal struct {
	name  string
	total float64
}

func topPayees(txs []models.Transaction) []payeeTotal {
	sums := map[string]decimal.Decimal{}
	for i := range txs {
		name := txs[i].PayeeName
		if name == "" {
			name = unknownPayee
		}
		sums[name] = sums[name].Add(txs[i].Amount.Spend())
	}
	out := make([]payeeTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, payeeTotal{name: name, total: total.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total > out[j].total
		}
		return out[i].name < out[j].name
	})
	if len(out) > maxPayees {
		out = out[:maxPayees]
	}
	return out
}

// Decode reverses Encode. Any malformed input yields *errs.BadLinkError.
func Decode(s string) (*dto.ReportData, error) {
	if s == "" {
		return nil, errs.NewBadLinkError(errors.New("empty payload"))
	}
	raw, err := lzstring.DecompressFromEncodedURIComponent(s)
	if err != nil {
		return nil, errs.NewBadLinkError(err)
	}
	if raw == "" {
		return nil, errs.NewBadLinkError(errors.New("payload did not decompress"))
	}

	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		return nil, errs.NewBadLinkError(err)
	}
	if len(parts) < 4 {
		return nil, errs.NewBadLinkError(fmt.Errorf("expected at least 4 fields, got %d", len(parts)))
	}

	data := &dto.ReportData{Shared: true}
	if err := json.Unmarshal(parts[0], &data.TotalSpent); err != nil {
		return nil, errs.NewBadLinkError(fmt.Errorf("total: %w", err))
	}
	if err := decodeDate(parts[1], &data.StartDate); err != nil {
		return nil, errs.NewBadLinkError(fmt.Errorf("start date: %w", err))
	}
	if err := decodeDate(parts[2], &data.EndDate); err != nil {
		return nil, errs.NewBadLinkError(fmt.Errorf("end date: %w", err))
	}

	categories, err := decodeCategories(parts[3])
	if err != nil {
		return nil, errs.NewBadLinkError(err)
	}
	data.Categories = categories

	if len(parts) > 4 {
		var dow []float64
		if err := json.Unmarshal(parts[4], &dow); err != nil {
			return nil, errs.NewBadLinkError(fmt.Errorf("weekday totals: %w", err))
		}
		if len(dow) != 7 {
			return nil, errs.NewBadLinkError(fmt.Errorf("expected 7 weekday totals, got %d", len(dow)))
		}
		data.DayOfWeekStats = dow
	}
	return data, nil
}

func decodeDate(raw json.RawMessage, dst *string) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if _, err := calendar.Parse(s); err != nil {
		return err
	}
	*dst = s
	return nil
}

func decodeCategories(raw json.RawMessage) ([]dto.CategorySpending, error) {
	var cats [][]json.RawMessage
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	out := make([]dto.CategorySpending, 0, len(cats))
	for i, c := range cats {
		if len(c) != 3 {
			return nil, fmt.Errorf("category %d: expected 3 fields, got %d", i, len(c))
		}
		var name string
		var total float64
		var payees [][]json.RawMessage
		if err := json.Unmarshal(c[0], &name); err != nil {
			return nil, fmt.Errorf("category %d name: %w", i, err)
		}
		if err := json.Unmarshal(c[1], &total); err != nil {
			return nil, fmt.Errorf("category %d total: %w", i, err)
		}
		if err := json.Unmarshal(c[2], &payees); err != nil {
			return nil, fmt.Errorf("category %d payees: %w", i, err)
		}

		txs := make([]models.Transaction, 0, len(payees))
		for j, p := range payees {
			if len(p) != 2 {
				return nil, fmt.Errorf("category %d payee %d: expected 2 fields, got %d", i, j, len(p))
			}
			var payee string
			var amount float64
			if err := json.Unmarshal(p[0], &payee); err != nil {
				return nil, fmt.Errorf("category %d payee %d name: %w", i, j, err)
			}
			if err := json.Unmarshal(p[1], &amount); err != nil {
				return nil, fmt.Errorf("category %d payee %d total: %w", i, j, err)
			}
			milli, err := toMilliunits(amount)
			if err != nil {
				return nil, fmt.Errorf("category %d payee %d total: %w", i, j, err)
			}
			txs = append(txs, models.Transaction{
				ID:           sharedTxID,
				Approved:     true,
				PayeeName:    payee,
				Amount:       milli,
				CategoryName: name,
			})
		}
		out = append(out, dto.CategorySpending{
			CategoryID:   name,
			CategoryName: name,
			TotalAmount:  total,
			Transactions: txs,
		})
	}
	return out, nil
}

var (
	maxMilliunits = decimal.NewFromInt(math.MaxInt64)
	minMilliunits = decimal.NewFromInt(math.MinInt64)
)

// toMilliunits turns a major-unit spend back into a signed upstream amount.
// Values that do not fit in an int64 milliunit count are rejected.
func toMilliunits(spend float64) (models.Milliunits, error) {
	d := decimal.NewFromFloat(spend).Shift(3).Round(0).Neg()
	if d.GreaterThan(maxMilliunits) || d.LessThan(minMilliunits) {
		return 0, fmt.Errorf("amount %g out of range", spend)
	}
	return models.Milliunits(d.IntPart()), nil
}
