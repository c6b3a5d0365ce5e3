package handlers

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/response"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

type ReportService interface {
	GenerateReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ReportData, error)
	ShareReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ShareLink, error)
	DecodeShared(ctx context.Context, encoded string) (*dto.ReportData, error)
	RenderHTML(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error)
	RenderXLSX(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error)
	RenderSharedHTML(ctx context.Context, encoded, currencyCode string) (*dto.Export, error)
}

type reportHandlers struct {
	ResponseHandler response.ResponseHandler
	ReportSvc       ReportService
}

func NewReportHandlers(deps *Deps) *reportHandlers {
	return &reportHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReportSvc:       deps.ReportSvc,
	}
}

// ReportRoutes is mounted below /budgets/{budgetId}/report.
func (h *reportHandlers) ReportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetReport)
	r.Get("/share", h.ShareReport)
	r.Get("/html", h.DownloadHTML)
	r.Get("/xlsx", h.DownloadXLSX)
	return r
}

// SharedRoutes serve decoded links; they never call upstream.
func (h *reportHandlers) SharedRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetShared)
	r.Get("/html", h.DownloadShared)
	return r
}

func reportQuery(r *http.Request) dto.ReportQuery {
	q := r.URL.Query()
	return dto.ReportQuery{
		BudgetID:  chi.URLParam(r, "budgetId"),
		AccountID: q.Get("account"),
		Flag:      q.Get("flag"),
		Preset:    q.Get("preset"),
		Start:     q.Get("start"),
		End:       q.Get("end"),
	}
}

func (h *reportHandlers) GetReport(w http.ResponseWriter, r *http.Request) {
	data, err := h.ReportSvc.GenerateReport(r.Context(), middleware.SessionID(r.Context()), reportQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *reportHandlers) ShareReport(w http.ResponseWriter, r *http.Request) {
	link, err := h.ReportSvc.ShareReport(r.Context(), middleware.SessionID(r.Context()), reportQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, link)
}

func (h *reportHandlers) DownloadHTML(w http.ResponseWriter, r *http.Request) {
	export, err := h.ReportSvc.RenderHTML(r.Context(), middleware.SessionID(r.Context()), reportQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	writeExport(w, r, export)
}

func (h *reportHandlers) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	export, err := h.ReportSvc.RenderXLSX(r.Context(), middleware.SessionID(r.Context()), reportQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	writeExport(w, r, export)
}

func (h *reportHandlers) GetShared(w http.ResponseWriter, r *http.Request) {
	data, err := h.ReportSvc.DecodeShared(r.Context(), r.URL.Query().Get("data"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *reportHandlers) DownloadShared(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	export, err := h.ReportSvc.RenderSharedHTML(r.Context(), q.Get("data"), q.Get("currency"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	writeExport(w, r, export)
}

func writeExport(w http.ResponseWriter, r *http.Request, export *dto.Export) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Body); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write export", "error", err, "filename", export.Filename)
	}
}
