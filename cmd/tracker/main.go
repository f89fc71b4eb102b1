package main

import (
	"context"
	"os/signal"
	"syscall"

	"cryptoprice-service/internal/bootstrap"
	"cryptoprice-service/internal/config"
	"cryptoprice-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// logx reads LOG_LEVEL before .env is loaded; apply it again afterwards.
func init() {
	_ = godotenv.Load()
	_ = logx.SetLevel(config.Load().LogLevel)
}

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.Init(ctx)
	if err != nil {
		log.Fatal("init tracker", zap.Error(err))
	}
	defer cleanup()

	if len(app.Config.TrackCurrencies) == 0 {
		log.Fatal("no currencies configured (TRACK_CURRENCIES)")
	}
	bootstrap.ProvideTracker(app.Config, app.Service, app.Log).Start(ctx)
}
