package handlers

import (
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/budget-report/internal/response"
)

// SessionCookies writes and clears the browser session cookie.
type SessionCookies interface {
	SetCookie(w http.ResponseWriter, sessionID string)
	ClearCookie(w http.ResponseWriter)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Cookies         SessionCookies
	SessionSvc      SessionService
	ProxySvc        ProxyService
	BudgetSvc       BudgetService
	ReportSvc       ReportService
	FutureSvc       FutureService
}
