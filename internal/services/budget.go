package services

import (
	"context"

	"github.com/GregMSThompson/budget-report/internal/models"
)

type budgetClient interface {
	ListBudgets(ctx context.Context, token string) ([]models.Budget, error)
	ListAccounts(ctx context.Context, token, budgetID string) ([]models.Account, error)
}

type budgetService struct {
	tokens tokenSource
	client budgetClient
}

func NewBudgetService(tokens tokenSource, client budgetClient) *budgetService {
	return &budgetService{tokens: tokens, client: client}
}

func (s *budgetService) ListBudgets(ctx context.Context, sessionID string) ([]models.Budget, error) {
	token, err := s.tokens.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.client.ListBudgets(ctx, token)
}

func (s *budgetService) ListAccounts(ctx context.Context, sessionID, budgetID string) ([]models.Account, error) {
	token, err := s.tokens.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.client.ListAccounts(ctx, token, budgetID)
}
