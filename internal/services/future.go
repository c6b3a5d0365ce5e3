package services

import (
	"context"
	"fmt"
	"time"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/schedule"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

const (
	DefaultFutureMonths = 6
	maxFutureMonths     = 24
)

type scheduleClient interface {
	ListScheduledTransactions(ctx context.Context, token, budgetID, accountID, flag string) ([]models.ScheduledTransaction, error)
}

type futureService struct {
	tokens   tokenSource
	client   scheduleClient
	loc      *time.Location
	clockNow func() time.Time
}

func NewFutureService(tokens tokenSource, client scheduleClient, loc *time.Location) *futureService {
	if loc == nil {
		loc = time.Local
	}
	return &futureService{tokens: tokens, client: client, loc: loc, clockNow: time.Now}
}

// FuturePayments expands the budget's scheduled transactions over the next
// months and summarises the upcoming outflows.
func (s *futureService) FuturePayments(ctx context.Context, sessionID, budgetID, accountID, flag string, months int) (*dto.FutureView, error) {
	if months < 1 || months > maxFutureMonths {
		return nil, errs.NewValidationError(fmt.Sprintf("months must be between 1 and %d", maxFutureMonths))
	}
	token, err := s.tokens.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.client.ListScheduledTransactions(ctx, token, budgetID, accountID, flag)
	if err != nil {
		return nil, err
	}

	today := calendar.Today(s.clockNow(), s.loc)
	occurrences := schedule.Expand(scheduled, today, months)
	view := schedule.BuildView(occurrences, today, months)

	logger.FromContext(ctx).Info("future payments built",
		"budget_id", budgetID, "scheduled", len(scheduled), "occurrences", len(occurrences))
	return &view, nil
}
