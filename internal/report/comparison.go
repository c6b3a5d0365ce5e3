package report

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

// buildComparison emits cumulative current/previous spend per day of month
// (daily) or per month of year (monthly). Days of a longer prior month are
// folded into the last point so its total is never lost.
func buildComparison(mode string, start civil.Date, current, previous []models.Transaction) []dto.ComparisonDataPoint {
	size := 12
	if mode == dto.ComparisonDaily {
		size = calendar.DaysInMonth(start.Year, start.Month)
	}
	bucket := func(d civil.Date) int {
		if mode == dto.ComparisonDaily {
			return d.Day - 1
		}
		return int(d.Month) - 1
	}

	cur := bucketSpend(current, size, bucket)
	prev := bucketSpend(previous, size, bucket)

	points := make([]dto.ComparisonDataPoint, size)
	var runCur, runPrev decimal.Decimal
	for i := 0; i < size; i++ {
		runCur = runCur.Add(cur[i])
		runPrev = runPrev.Add(prev[i])
		p := dto.ComparisonDataPoint{
			Current:  runCur.InexactFloat64(),
			Previous: runPrev.InexactFloat64(),
		}
		if mode == dto.ComparisonDaily {
			p.Index = i + 1
			p.Label = strconv.Itoa(i + 1)
		} else {
			p.Index = i
			p.Label = time.Month(i + 1).String()[:3]
		}
		points[i] = p
	}
	return points
}

func bucketSpend(txs []models.Transaction, size int, bucket func(civil.Date) int) []decimal.Decimal {
	sums := make([]decimal.Decimal, size)
	for i := range txs {
		tx := &txs[i]
		if tx.IsTransfer() || tx.IsSplit() || !tx.Date.IsValid() {
			continue
		}
		idx := bucket(tx.Date)
		if idx < 0 {
			continue
		}
		if idx >= size {
			idx = size - 1
		}
		sums[idx] = sums[idx].Add(tx.Amount.Spend())
	}
	return sums
}
