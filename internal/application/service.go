package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoprice-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceResult is the outcome of a live price fetch. Persisted reports whether
// the price also reached the store; callers of the HTTP API never see it.
type PriceResult struct {
	Currency  string
	Symbol    domain.Symbol
	Bid       decimal.Decimal
	Time      time.Time
	Persisted bool
}

type PriceService struct {
	exchange Exchange
	store    Store
	idem     IdempotencyStore
	quote    string
	log      *zap.Logger
	obs      Observer
}

type Option func(*PriceService)

func WithQuote(q string) Option       { return func(s *PriceService) { s.quote = q } }
func WithLogger(l *zap.Logger) Option { return func(s *PriceService) { s.log = l } }
func WithObserver(o Observer) Option  { return func(s *PriceService) { s.obs = o } }

func WithIdempotency(i IdempotencyStore) Option {
	return func(s *PriceService) { s.idem = i }
}

func NewPriceService(exchange Exchange, store Store, opts ...Option) *PriceService {
	s := &PriceService{exchange: exchange, store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.quote == "" {
		s.quote = domain.DefaultQuote
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.obs == nil {
		s.obs = noopObserver{}
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	return s
}

func (s *PriceService) symbol(currency string) (domain.Symbol, error) {
	if !domain.ValidateCurrency(currency) {
		return "", fmt.Errorf("%q: %w", currency, ErrInvalidCurrency)
	}
	return domain.NewSymbol(currency, s.quote), nil
}

// ExchangeName is the display name of the upstream exchange.
func (s *PriceService) ExchangeName() string { return s.exchange.Name() }

// Ping checks store reachability.
func (s *PriceService) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// FetchPrice returns the live bid price and appends it to the currency table.
// Store failures are logged and reported only through PriceResult.Persisted.
func (s *PriceService) FetchPrice(ctx context.Context, currency string) (PriceResult, error) {
	sym, err := s.symbol(currency)
	if err != nil {
		return PriceResult{}, err
	}
	t, err := s.exchange.Ticker(ctx, sym)
	if err != nil {
		s.obs.ExchangeRequest(s.exchange.Name(), "error")
		var xe *ExchangeError
		if !errors.As(err, &xe) {
			err = &ExchangeError{Exchange: s.exchange.Name(), Err: err}
		}
		return PriceResult{}, err
	}
	if t.Bid == nil {
		s.obs.ExchangeRequest(s.exchange.Name(), "no_bid")
		return PriceResult{}, &NoBidError{Symbol: sym}
	}
	s.obs.ExchangeRequest(s.exchange.Name(), "ok")

	res := PriceResult{
		Currency: currency,
		Symbol:   sym,
		Bid:      *t.Bid,
		Time:     t.Time(),
	}
	rec := domain.PriceRecord{Date: res.Time, Value: res.Bid}
	if err := s.persist(ctx, sym.TableName(), rec); err != nil {
		s.log.Error("persist_failed",
			zap.String("symbol", sym.String()),
			zap.String("table", sym.TableName()),
			zap.Error(err),
		)
		s.obs.Persisted(false)
		return res, nil
	}
	s.obs.Persisted(true)
	res.Persisted = true
	return res, nil
}

func (s *PriceService) persist(ctx context.Context, table string, rec domain.PriceRecord) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Close()

	exists, err := sess.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		if err := sess.CreateTable(ctx, table); err != nil {
			return err
		}
	}
	return sess.Insert(ctx, table, rec)
}

// History returns every stored price of the currency.
func (s *PriceService) History(ctx context.Context, currency string) (domain.History, error) {
	sym, err := s.symbol(currency)
	if err != nil {
		return nil, err
	}
	table := sym.TableName()
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Close()

	exists, err := sess.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &TableError{Table: table}
	}
	return sess.SelectAll(ctx, table)
}

// DeleteCurrency drops the currency table. A non-nil idem key already used by
// a successful delete within the idempotency window yields ErrConflict; the
// key is released when the delete fails so the request can be retried.
func (s *PriceService) DeleteCurrency(ctx context.Context, currency string, idem *string) (err error) {
	sym, err := s.symbol(currency)
	if err != nil {
		return err
	}
	if idem != nil && *idem != "" {
		key := "delete:" + *idem
		ok, rerr := s.idem.TryReserve(ctx, key)
		if rerr != nil {
			return fmt.Errorf("idempotency: %w", rerr)
		}
		if !ok {
			return ErrConflict
		}
		defer func() {
			if err == nil {
				return
			}
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.log.Warn("idempotency_release_failed", zap.String("key", key), zap.Error(rerr))
			}
		}()
	}
	table := sym.TableName()
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("acquire session: %w", err)
	}
	defer sess.Close()

	exists, err := sess.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return &TableError{Table: table}
	}
	return sess.DropTable(ctx, table)
}
