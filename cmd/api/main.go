package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cryptoprice-service/internal/bootstrap"
	"cryptoprice-service/internal/config"
	infraconfig "cryptoprice-service/internal/infrastructure/config"
	httpserver "cryptoprice-service/internal/infrastructure/http"
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
	logger := logx.L()
	app, cleanup, err := bootstrap.Init(context.Background())
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	port := app.Config.Port
	if port == "" {
		port = infraconfig.DefaultHTTPPort
	}
	addr := ":" + port

	srv := httpserver.NewServer(app.Service)
	srv.SetMetrics(app.Metrics)
	srv.SetReadyCheck(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, infraconfig.DefaultPingTimeout)
		defer cancel()
		return app.Service.Ping(ctx)
	})

	server := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(srv),
	}

	go func() {
		logger.Info("server started",
			zap.String("addr", addr),
			zap.String("env", app.Config.Env),
			zap.String("exchange", app.Service.ExchangeName()),
			zap.String("storage", app.Config.Storage),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
