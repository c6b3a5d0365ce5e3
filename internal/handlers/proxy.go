package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/response"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

type ProxyService interface {
	Forward(ctx context.Context, sessionID, path, rawQuery string) (*dto.ProxyResponse, error)
}

type proxyHandlers struct {
	ResponseHandler response.ResponseHandler
	ProxySvc        ProxyService
}

func NewProxyHandlers(deps *Deps) *proxyHandlers {
	return &proxyHandlers{
		ResponseHandler: deps.ResponseHandler,
		ProxySvc:        deps.ProxySvc,
	}
}

func (h *proxyHandlers) ProxyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.Forward)
	return r
}

// Forward relays the request path below the mount point to the budgeting
// API and writes the upstream status, content type and body unchanged.
func (h *proxyHandlers) Forward(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "*")
	resp, err := h.ProxySvc.Forward(r.Context(), middleware.SessionID(r.Context()), path, r.URL.RawQuery)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		logger.FromContext(r.Context()).Warn("failed to relay upstream body", "error", err)
	}
}
