package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/config"
	"cryptoprice-service/internal/infrastructure/exchange"
	"cryptoprice-service/internal/infrastructure/httpx"
	"cryptoprice-service/internal/infrastructure/logx"
	"cryptoprice-service/internal/infrastructure/metrics"
	"cryptoprice-service/internal/infrastructure/pg"
	redisstore "cryptoprice-service/internal/infrastructure/redis"
	"cryptoprice-service/internal/infrastructure/settings"
	"cryptoprice-service/internal/infrastructure/sqlite"
	"cryptoprice-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnknownStorage = errors.New("unknown STORAGE")

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

// ProvideStore opens the price store selected by STORAGE. For pg the
// settings file is read again for every new pooled connection.
func ProvideStore(ctx context.Context, log *zap.Logger, cfg config.Config) (application.Store, func(), error) {
	switch cfg.Storage {
	case "pg":
		load := func() (map[string]string, error) {
			return settings.Load(cfg.DBConfigFile, cfg.DBConfigSection)
		}
		db, err := pg.ConnectWithParams(ctx, load)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect pg: %w", err)
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewStore(db), cleanup, nil
	case "sqlite":
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open sqlite: %w", err)
		}
		cleanup := func() {
			log.Info("closing sqlite")
			_ = st.Close()
		}
		return st, cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}
}

func ProvideExchange(cfg config.Config) application.Exchange {
	switch cfg.Exchange {
	case "fake":
		return exchange.NewFake(1)
	default:
		return &exchange.KuCoin{
			BaseURL: cfg.KuCoinAPIBase,
			Client:  &httpx.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}},
		}
	}
}

// ProvideIdempotency returns the redis-backed store when IDEMPOTENCY_BACKEND=redis, a no-op otherwise.
func ProvideIdempotency(cfg config.Config) (application.IdempotencyStore, func()) {
	if cfg.IdempotencyBackend != "redis" {
		return application.NoopIdempotency{}, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.New(client, cfg.RedisTTL)
	return store, func() { _ = store.Close() }
}

func ProvidePriceService(cfg config.Config, ex application.Exchange, st application.Store, idem application.IdempotencyStore, m *metrics.Metrics, log *zap.Logger) *application.PriceService {
	opts := []application.Option{
		application.WithQuote(cfg.QuoteCurrency),
		application.WithLogger(log),
		application.WithIdempotency(idem),
	}
	if m != nil {
		opts = append(opts, application.WithObserver(m))
	}
	return application.NewPriceService(ex, st, opts...)
}

func ProvideTracker(cfg config.Config, svc *application.PriceService, log *zap.Logger) *worker.Tracker {
	return &worker.Tracker{
		Service:    svc,
		Currencies: cfg.TrackCurrencies,
		PollEvery:  cfg.TrackInterval,
		Log:        log.With(zap.String("worker", "tracker")),
	}
}

// App bundles what the binaries need.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Service *application.PriceService
}

// Init wires the store, exchange and idempotency into a PriceService.
// The returned cleanup closes everything that was opened.
func Init(ctx context.Context) (*App, func(), error) {
	log := ProvideLogger()
	cfg := ProvideConfig()

	st, closeStore, err := ProvideStore(ctx, log, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	idem, closeIdem := ProvideIdempotency(cfg)
	m := metrics.New()
	svc := ProvidePriceService(cfg, ProvideExchange(cfg), st, idem, m, log)

	cleanup := func() {
		closeIdem()
		closeStore()
	}
	return &App{Config: cfg, Log: log, Metrics: m, Service: svc}, cleanup, nil
}
