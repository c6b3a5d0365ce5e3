package ynabclient

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/GregMSThompson/budget-report/internal/calendar"
	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

func (a *Adapter) ListBudgets(ctx context.Context, token string) ([]models.Budget, error) {
	var data struct {
		Budgets []models.Budget `json:"budgets"`
	}
	if err := a.getData(ctx, token, "/budgets", nil, &data); err != nil {
		return nil, err
	}
	return data.Budgets, nil
}

func (a *Adapter) BudgetSettings(ctx context.Context, token, budgetID string) (*models.BudgetSettings, error) {
	var data struct {
		Settings models.BudgetSettings `json:"settings"`
	}
	if err := a.getData(ctx, token, "/budgets/"+url.PathEscape(budgetID)+"/settings", nil, &data); err != nil {
		return nil, err
	}
	return &data.Settings, nil
}

// ListAccounts returns the open, on-budget accounts of a budget.
func (a *Adapter) ListAccounts(ctx context.Context, token, budgetID string) ([]models.Account, error) {
	var data struct {
		Accounts []models.Account `json:"accounts"`
	}
	if err := a.getData(ctx, token, "/budgets/"+url.PathEscape(budgetID)+"/accounts", nil, &data); err != nil {
		return nil, err
	}

	out := make([]models.Account, 0, len(data.Accounts))
	for _, acc := range data.Accounts {
		if acc.Closed || !acc.OnBudget {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

// ListTransactions returns the non-transfer transactions dated within the
// filter's inclusive range that match its flag filter.
func (a *Adapter) ListTransactions(ctx context.Context, token, budgetID string, f dto.TransactionFilter) ([]models.Transaction, error) {
	path := "/budgets/" + url.PathEscape(budgetID) + "/transactions"
	if f.AccountID != "" && f.AccountID != dto.AllAccounts {
		path = "/budgets/" + url.PathEscape(budgetID) + "/accounts/" + url.PathEscape(f.AccountID) + "/transactions"
	}
	query := url.Values{}
	if f.Start.IsValid() {
		query.Set("since_date", f.Start.String())
	}

	var data struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := a.getData(ctx, token, path, query, &data); err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(data.Transactions))
	for _, tx := range data.Transactions {
		if tx.Deleted || tx.IsTransfer() {
			continue
		}
		if f.Start.IsValid() && f.End.IsValid() && !calendar.Within(tx.Date, f.Start, f.End) {
			continue
		}
		if !a.matchFlag(f.Flag, tx.FlagColor, tx.FlagName) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// ListScheduledTransactions returns live, non-transfer schedules of the
// account (or every account) that match the flag filter.
func (a *Adapter) ListScheduledTransactions(ctx context.Context, token, budgetID, accountID, flag string) ([]models.ScheduledTransaction, error) {
	var data struct {
		ScheduledTransactions []models.ScheduledTransaction `json:"scheduled_transactions"`
	}
	if err := a.getData(ctx, token, "/budgets/"+url.PathEscape(budgetID)+"/scheduled_transactions", nil, &data); err != nil {
		return nil, err
	}

	out := make([]models.ScheduledTransaction, 0, len(data.ScheduledTransactions))
	for _, st := range data.ScheduledTransactions {
		if accountID != "" && accountID != dto.AllAccounts && st.AccountID != accountID {
			continue
		}
		if st.Deleted || st.TransferAccountID != "" {
			continue
		}
		if !a.matchFlag(flag, st.FlagColor, st.FlagName) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// matchFlag applies the flag filter: empty matches everything, a flag-group
// key matches by case-insensitive flag name, anything else by flag colour.
func (a *Adapter) matchFlag(filter, color, name string) bool {
	if filter == "" {
		return true
	}
	if group, ok := a.flagGroups[filter]; ok {
		return slices.Contains(group, strings.ToLower(name))
	}
	return color == filter
}
