package exchange

import (
	"context"
	"time"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements application.Exchange.
var _ application.Exchange = (*Fake)(nil)

// Fake returns a fixed bid for every symbol, stamped with the current time.
type Fake struct {
	bid decimal.Decimal
	now func() time.Time
}

func NewFake(bid float64) *Fake { return &Fake{bid: decimal.NewFromFloat(bid), now: time.Now} }

func (f *Fake) Name() string { return "Fake" }

func (f *Fake) Ticker(_ context.Context, sym domain.Symbol) (domain.Ticker, error) {
	bid := f.bid
	return domain.Ticker{
		Symbol:      sym,
		Bid:         &bid,
		TimestampMS: f.now().UnixMilli(),
	}, nil
}
