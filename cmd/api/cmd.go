package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/budget-report/internal/bootstrap"
	"github.com/GregMSThompson/budget-report/internal/config"
	"github.com/GregMSThompson/budget-report/internal/handlers"
	"github.com/GregMSThompson/budget-report/internal/middleware"
	"github.com/GregMSThompson/budget-report/internal/response"
	"github.com/GregMSThompson/budget-report/internal/router"
	"github.com/GregMSThompson/budget-report/internal/services"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// local .env is optional
	_ = godotenv.Load()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	// services
	sessserv := services.NewSessionService(bs.Sessions, bs.Cipher, cfg.SessionTTL)
	proxserv := services.NewProxyService(sessserv, bs.YNAB)
	budserv := services.NewBudgetService(sessserv, bs.YNAB)
	repserv := services.NewReportService(sessserv, bs.YNAB, cfg.PublicBaseURL, bs.Location)
	futserv := services.NewFutureService(sessserv, bs.YNAB, bs.Location)
	sessserv.StartJanitor(ctx, cfg.SessionPurgeInterval)

	// middlewares
	sessmw := middleware.NewSessionMiddleware(cfg.Production())
	ratemw := middleware.NewRateLimitMiddleware(cfg.RateLimit, cfg.RateBurst)
	defer ratemw.Stop()

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.Cookies = sessmw
	deps.SessionSvc = sessserv
	deps.ProxySvc = proxserv
	deps.BudgetSvc = budserv
	deps.ReportSvc = repserv
	deps.FutureSvc = futserv

	// router
	r := router.NewRouter(deps, router.Middlewares{
		Logger:    middleware.NewLoggerMiddleware(bs.Log).LoggerMiddleware,
		CORS:      middleware.NewCORSMiddleware(cfg.ClientOrigin).CORS,
		Session:   sessmw.Session,
		RateLimit: ratemw.RateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
