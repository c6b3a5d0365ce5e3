package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/response"
)

const maxTokenBody = 10 << 10

type SessionService interface {
	Status(ctx context.Context, sessionID string) (dto.AuthStatus, error)
	SaveToken(ctx context.Context, sessionID, token string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	Cookies         SessionCookies
	SessionSvc      SessionService
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		Cookies:         deps.Cookies,
		SessionSvc:      deps.SessionSvc,
	}
}

func (h *authHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.Status)
	r.Post("/ynab", h.SaveToken)
	r.Post("/logout", h.Logout)
	return r
}

func (h *authHandlers) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.SessionSvc.Status(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}

func (h *authHandlers) SaveToken(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTokenBody)).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("token required"))
		return
	}

	current := middleware.SessionID(r.Context())
	sessionID, err := h.SessionSvc.SaveToken(r.Context(), current, req.Token)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if sessionID != current {
		h.Cookies.SetCookie(w, sessionID)
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionSvc.Logout(r.Context(), middleware.SessionID(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.Cookies.ClearCookie(w)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
