// Package schedule projects scheduled transactions into concrete future
// occurrences and summarises them month by month.
package schedule

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

// Frequencies understood by Next. Anything else advances one month.
const (
	Never           = "never"
	Daily           = "daily"
	Weekly          = "weekly"
	EveryOtherWeek  = "everyOtherWeek"
	TwiceAMonth     = "twiceAMonth"
	Every4Weeks     = "every4Weeks"
	Monthly         = "monthly"
	EveryOtherMonth = "everyOtherMonth"
	Every3Months    = "every3Months"
	Every4Months    = "every4Months"
	TwiceAYear      = "twiceAYear"
	Yearly          = "yearly"
	EveryOtherYear  = "everyOtherYear"
)

// MaxOccurrences bounds the dates produced for a single schedule.
const MaxOccurrences = 100

// Occurrence is one projected payment of a schedule.
type Occurrence struct {
	ID           string
	Date         civil.Date
	Amount       models.Milliunits
	PayeeName    string
	CategoryID   string
	CategoryName string
	Memo         string
	FlagColor    string
	FlagName     string
	Frequency    string
}

func (o Occurrence) Recurring() bool {
	return o.Frequency != Never
}

func (o Occurrence) DTO() dto.ExpandedScheduledTransaction {
	return dto.ExpandedScheduledTransaction{
		ID:           o.ID,
		Date:         o.Date.String(),
		Amount:       o.Amount.ToMajorUnits().InexactFloat64(),
		PayeeName:    o.PayeeName,
		CategoryName: o.CategoryName,
		CategoryID:   o.CategoryID,
		Memo:         o.Memo,
		FlagColor:    o.FlagColor,
		FlagName:     o.FlagName,
		Frequency:    o.Frequency,
		IsRecurring:  o.Recurring(),
	}
}

// HorizonEnd is the last day of the month months-1 after today's month.
func HorizonEnd(today civil.Date, months int) civil.Date {
	return calendar.MonthEnd(calendar.MonthStart(today).AddMonths(months - 1))
}

// Next advances date by one step of freq. twiceAMonth is approximated as
// 15 days and drifts from true semimonthly dates over many steps.
func Next(date civil.Date, freq string) civil.Date {
	switch freq {
	case Daily:
		return date.AddDays(1)
	case Weekly:
		return date.AddDays(7)
	case EveryOtherWeek:
		return date.AddDays(14)
	case TwiceAMonth:
		return date.AddDays(15)
	case Every4Weeks:
		return date.AddDays(28)
	case Monthly:
		return date.AddMonths(1)
	case EveryOtherMonth:
		return date.AddMonths(2)
	case Every3Months:
		return date.AddMonths(3)
	case Every4Months:
		return date.AddMonths(4)
	case TwiceAYear:
		return date.AddMonths(6)
	case Yearly:
		return date.AddYears(1)
	case EveryOtherYear:
		return date.AddYears(2)
	default:
		return date.AddMonths(1)
	}
}

// Occurrences lists the dates of a schedule in [today, end], starting at
// next and capped at MaxOccurrences.
func Occurrences(next civil.Date, freq string, today, end civil.Date) []civil.Date {
	var out []civil.Date
	if !next.IsValid() {
		return out
	}
	if freq == Never {
		if calendar.Within(next, today, end) {
			out = append(out, next)
		}
		return out
	}
	for d := next; !d.After(end) && len(out) < MaxOccurrences; d = Next(d, freq) {
		if !d.Before(today) {
			out = append(out, d)
		}
	}
	return out
}

// Expand projects every schedule over the horizon. Split schedules yield
// one occurrence stream per live, non-transfer sub-transaction.
func Expand(scheduled []models.ScheduledTransaction, today civil.Date, months int) []Occurrence {
	end := HorizonEnd(today, months)
	var out []Occurrence
	for _, st := range scheduled {
		dates := Occurrences(st.DateNext, st.Frequency, today, end)
		if len(dates) == 0 {
			continue
		}
		if len(st.Subtransactions) > 0 {
			for _, sub := range st.Subtransactions {
				if sub.Deleted || sub.TransferAccountID != "" {
					continue
				}
				base := Occurrence{
					Amount:       sub.Amount,
					PayeeName:    firstNonEmpty(sub.PayeeName, st.PayeeName),
					CategoryID:   sub.CategoryID,
					CategoryName: sub.CategoryName,
					Memo:         firstNonEmpty(sub.Memo, st.Memo),
					FlagColor:    st.FlagColor,
					FlagName:     st.FlagName,
					Frequency:    st.Frequency,
				}
				out = appendDates(out, base, sub.ID, dates)
			}
			continue
		}
		base := Occurrence{
			Amount:       st.Amount,
			PayeeName:    st.PayeeName,
			CategoryID:   st.CategoryID,
			CategoryName: st.CategoryName,
			Memo:         st.Memo,
			FlagColor:    st.FlagColor,
			FlagName:     st.FlagName,
			Frequency:    st.Frequency,
		}
		out = appendDates(out, base, st.ID, dates)
	}
	return out
}

func appendDates(out []Occurrence, base Occurrence, id string, dates []civil.Date) []Occurrence {
	for _, d := range dates {
		o := base
		o.ID = fmt.Sprintf("%s-%s", id, d)
		o.Date = d
		out = append(out, o)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
