package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/response"
)

const defaultFutureMonths = 6

type FutureService interface {
	FuturePayments(ctx context.Context, sessionID, budgetID, accountID, flag string, months int) (*dto.FutureView, error)
}

type futureHandlers struct {
	ResponseHandler response.ResponseHandler
	FutureSvc       FutureService
}

func NewFutureHandlers(deps *Deps) *futureHandlers {
	return &futureHandlers{
		ResponseHandler: deps.ResponseHandler,
		FutureSvc:       deps.FutureSvc,
	}
}

func (h *futureHandlers) FuturePayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	months := defaultFutureMonths
	if raw := q.Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("months must be a number"))
			return
		}
		months = n
	}

	view, err := h.FutureSvc.FuturePayments(r.Context(), middleware.SessionID(r.Context()),
		chi.URLParam(r, "budgetId"), q.Get("account"), q.Get("flag"), months)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}
