package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/budget-report/internal/bootstrap"
	"github.com/GregMSThompson/budget-report/internal/config"
	"github.com/GregMSThompson/budget-report/internal/services"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// purge deletes expired sessions once and exits; run it from a scheduler.
func main() {
	_ = godotenv.Load()

	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.ToContext(ctx, bs.Log)

	sessserv := services.NewSessionService(bs.Sessions, bs.Cipher, cfg.SessionTTL)
	n, err := sessserv.PurgeExpired(ctx)
	exitOnError("purge failed", err, bs.Log)
	bs.Log.Info("purge complete", "removed", n)
}
