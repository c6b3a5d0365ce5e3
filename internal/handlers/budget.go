package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/internal/response"
)

type BudgetService interface {
	ListBudgets(ctx context.Context, sessionID string) ([]models.Budget, error)
	ListAccounts(ctx context.Context, sessionID, budgetID string) ([]models.Account, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       BudgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.BudgetSvc.ListBudgets(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, budgets)
}

func (h *budgetHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")
	accounts, err := h.BudgetSvc.ListAccounts(r.Context(), middleware.SessionID(r.Context()), budgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, accounts)
}
