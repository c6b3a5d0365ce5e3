package services

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/schedule"
	"github.com/GregMSThompson/budget-report/pkg/helpers"
)

func newTestFutureService(client *fakeYNAB) *futureService {
	svc := NewFutureService(&fakeTokens{token: "tok"}, client, time.UTC)
	svc.clockNow = func() time.Time { return reportNow }
	return svc
}

func TestFuturePayments(t *testing.T) {
	client := &fakeYNAB{
		scheduled: []models.ScheduledTransaction{
			{ID: "rent", DateNext: date(2025, 3, 15), Frequency: schedule.Monthly, Amount: -100000, CategoryID: "rent", CategoryName: "Rent"},
		},
	}
	svc := newTestFutureService(client)

	view, err := svc.FuturePayments(helpers.TestCtx(), "sid", "b1", "all", "", 2)
	if err != nil {
		t.Fatalf("future payments: %v", err)
	}
	if view.MonthsAhead != 2 || view.PendingCount != 2 {
		t.Fatalf("unexpected view header %+v", view)
	}
	if view.Stats.Total != 200 || view.Stats.Recurring != 2 {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
	if len(client.tokens) != 1 || client.tokens[0] != "tok" {
		t.Fatalf("expected the session token upstream, got %v", client.tokens)
	}
}

func TestFuturePaymentsValidatesMonths(t *testing.T) {
	svc := newTestFutureService(&fakeYNAB{})
	for _, months := range []int{0, -1, 25} {
		_, err := svc.FuturePayments(helpers.TestCtx(), "sid", "b1", "", "", months)
		var validation *errs.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("months %d: expected ValidationError, got %v", months, err)
		}
	}
}
