package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubCookies struct {
	set     string
	cleared bool
}

func (s *stubCookies) SetCookie(w http.ResponseWriter, sessionID string) { s.set = sessionID }
func (s *stubCookies) ClearCookie(w http.ResponseWriter)                 { s.cleared = true }

type stubSessionService struct {
	status    dto.AuthStatus
	returnID  string
	gotID     string
	gotToken  string
	loggedOut string
	err       error
}

func (s *stubSessionService) Status(ctx context.Context, sessionID string) (dto.AuthStatus, error) {
	s.gotID = sessionID
	return s.status, s.err
}

func (s *stubSessionService) SaveToken(ctx context.Context, sessionID, token string) (string, error) {
	s.gotID = sessionID
	s.gotToken = token
	return s.returnID, s.err
}

func (s *stubSessionService) Logout(ctx context.Context, sessionID string) error {
	s.loggedOut = sessionID
	return s.err
}

type stubProxyService struct {
	path, query, sessionID string
	resp                   *dto.ProxyResponse
	err                    error
}

func (s *stubProxyService) Forward(ctx context.Context, sessionID, path, rawQuery string) (*dto.ProxyResponse, error) {
	s.sessionID, s.path, s.query = sessionID, path, rawQuery
	return s.resp, s.err
}

type stubBudgetService struct {
	budgetID string
	err      error
}

func (s *stubBudgetService) ListBudgets(ctx context.Context, sessionID string) ([]models.Budget, error) {
	return []models.Budget{{ID: "b1"}}, s.err
}

func (s *stubBudgetService) ListAccounts(ctx context.Context, sessionID, budgetID string) ([]models.Account, error) {
	s.budgetID = budgetID
	return []models.Account{{ID: "a1"}}, s.err
}

type stubReportService struct {
	query    dto.ReportQuery
	encoded  string
	currency string
	export   *dto.Export
	err      error
}

func (s *stubReportService) GenerateReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ReportData, error) {
	s.query = q
	return &dto.ReportData{StartDate: "2025-03-01"}, s.err
}

func (s *stubReportService) ShareReport(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.ShareLink, error) {
	s.query = q
	return &dto.ShareLink{Data: "abc", URL: "https://app/?data=abc"}, s.err
}

func (s *stubReportService) DecodeShared(ctx context.Context, encoded string) (*dto.ReportData, error) {
	s.encoded = encoded
	return &dto.ReportData{Shared: true}, s.err
}

func (s *stubReportService) RenderHTML(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error) {
	s.query = q
	return s.export, s.err
}

func (s *stubReportService) RenderXLSX(ctx context.Context, sessionID string, q dto.ReportQuery) (*dto.Export, error) {
	s.query = q
	return s.export, s.err
}

func (s *stubReportService) RenderSharedHTML(ctx context.Context, encoded, currencyCode string) (*dto.Export, error) {
	s.encoded, s.currency = encoded, currencyCode
	return s.export, s.err
}

type stubFutureService struct {
	months              int
	budgetID, accountID string
	err                 error
}

func (s *stubFutureService) FuturePayments(ctx context.Context, sessionID, budgetID, accountID, flag string, months int) (*dto.FutureView, error) {
	s.budgetID, s.accountID, s.months = budgetID, accountID, months
	return &dto.FutureView{MonthsAhead: months}, s.err
}

// withURLParams attaches chi URL params to a request, as the router would.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
