package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/budget-report/internal/handlers"
)

// Middlewares is the request pipeline applied ahead of every route, in the
// order given by NewRouter.
type Middlewares struct {
	Logger    func(http.Handler) http.Handler
	CORS      func(http.Handler) http.Handler
	Session   func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler
}

func NewRouter(deps *handlers.Deps, mw Middlewares) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	for _, m := range []func(http.Handler) http.Handler{mw.Logger, mw.CORS} {
		if m != nil {
			r.Use(m)
		}
	}
	r.Use(chimiddleware.Recoverer)
	for _, m := range []func(http.Handler) http.Handler{mw.Session, mw.RateLimit} {
		if m != nil {
			r.Use(m)
		}
	}

	hh := handlers.NewHealthHandlers(deps)
	ah := handlers.NewAuthHandlers(deps)
	ph := handlers.NewProxyHandlers(deps)
	bh := handlers.NewBudgetHandlers(deps)
	rh := handlers.NewReportHandlers(deps)
	fh := handlers.NewFutureHandlers(deps)

	r.Get("/healthz", hh.Health)
	r.Mount("/auth", ah.AuthRoutes())
	r.Mount("/ynab", ph.ProxyRoutes())
	r.Route("/budgets", func(r chi.Router) {
		r.Get("/", bh.ListBudgets)
		r.Get("/{budgetId}/accounts", bh.ListAccounts)
		r.Mount("/{budgetId}/report", rh.ReportRoutes())
		r.Get("/{budgetId}/future", fh.FuturePayments)
	})
	r.Mount("/shared", rh.SharedRoutes())
	return r
}
