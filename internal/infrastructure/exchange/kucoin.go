package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/domain"
	"cryptoprice-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	kucoinName      = "KuCoin"
	kucoinStatsPath = "/api/v1/market/stats"
	kucoinCodeOK    = "200000"
)

type KuCoin struct {
	BaseURL string
	Client  *httpx.Client
}

var _ application.Exchange = (*KuCoin)(nil)

type kucoinStatsResp struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Time   int64   `json:"time"`
		Symbol string  `json:"symbol"`
		Buy    *string `json:"buy"`
		Sell   *string `json:"sell"`
		Last   *string `json:"last"`
	} `json:"data"`
}

func (k *KuCoin) Name() string { return kucoinName }

// Ticker fetches 24h stats for the symbol; "buy" is the best bid.
func (k *KuCoin) Ticker(ctx context.Context, sym domain.Symbol) (domain.Ticker, error) {
	t, err := k.ticker(ctx, sym)
	if err != nil {
		return domain.Ticker{}, &application.ExchangeError{Exchange: kucoinName, Err: err}
	}
	return t, nil
}

func (k *KuCoin) ticker(ctx context.Context, sym domain.Symbol) (domain.Ticker, error) {
	base, quote, ok := sym.Split()
	if !ok {
		return domain.Ticker{}, fmt.Errorf("kucoin: invalid symbol %s", sym)
	}
	if k.BaseURL == "" {
		return domain.Ticker{}, errors.New("kucoin: missing base url")
	}
	u, err := url.Parse(k.BaseURL)
	if err != nil {
		return domain.Ticker{}, fmt.Errorf("kucoin: invalid base url: %w", err)
	}
	u.Path = kucoinStatsPath
	q := u.Query()
	q.Set("symbol", base+"-"+quote)
	u.RawQuery = q.Encode()

	client := k.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var body kucoinStatsResp
	if err := client.GetJSON(ctx, u.String(), &body); err != nil {
		return domain.Ticker{}, fmt.Errorf("kucoin %s: %w", sym, err)
	}
	if body.Code != kucoinCodeOK {
		return domain.Ticker{}, fmt.Errorf("kucoin %s: %s %s", sym, body.Code, body.Msg)
	}

	out := domain.Ticker{Symbol: sym, TimestampMS: time.Now().UnixMilli()}
	if body.Data == nil {
		return out, nil
	}
	if body.Data.Time > 0 {
		out.TimestampMS = body.Data.Time
	}
	if body.Data.Buy != nil && strings.TrimSpace(*body.Data.Buy) != "" {
		bid, err := decimal.NewFromString(*body.Data.Buy)
		if err != nil {
			return domain.Ticker{}, fmt.Errorf("kucoin %s: parse bid %q: %w", sym, *body.Data.Buy, err)
		}
		out.Bid = &bid
	}
	return out, nil
}
