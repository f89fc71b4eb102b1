package worker

import (
	"context"
	"time"

	"cryptoprice-service/internal/application"
	infraconfig "cryptoprice-service/internal/infrastructure/config"

	"go.uber.org/zap"
)

var _ application.Worker = (*Tracker)(nil)

// Tracker polls the exchange for a fixed set of currencies so history keeps
// growing without client traffic.
type Tracker struct {
	Service    *application.PriceService
	Currencies []string

	PollEvery time.Duration
	Log       *zap.Logger
}

func (w *Tracker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	every := w.PollEvery
	if every <= 0 {
		every = infraconfig.DefaultTrackInterval
	}

	t := time.NewTicker(every)
	defer t.Stop()

	log.Info("tracker_started",
		zap.Duration("poll_every", every),
		zap.Strings("currencies", w.Currencies),
	)
	w.tick(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("tracker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *Tracker) tick(ctx context.Context, log *zap.Logger) {
	for _, c := range w.Currencies {
		if ctx.Err() != nil {
			return
		}
		w.trackOne(ctx, log, c)
	}
}

func (w *Tracker) trackOne(ctx context.Context, log *zap.Logger, currency string) {
	res, err := w.Service.FetchPrice(ctx, currency)
	if err != nil {
		log.Warn("track_failed", zap.String("currency", currency), zap.Error(err))
		return
	}
	log.Info("track_done",
		zap.String("symbol", res.Symbol.String()),
		zap.String("bid", res.Bid.String()),
		zap.Bool("persisted", res.Persisted),
	)
}
