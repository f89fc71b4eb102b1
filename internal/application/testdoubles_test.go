package application

import (
	"context"
	"errors"
	"sync"

	"cryptoprice-service/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrRepo = errors.New("repo error")

type fakeExchange struct {
	bid   *decimal.Decimal
	tsMS  int64
	err   error
	calls int
}

func (f *fakeExchange) Name() string { return "KuCoin" }

func (f *fakeExchange) Ticker(_ context.Context, sym domain.Symbol) (domain.Ticker, error) {
	f.calls++
	if f.err != nil {
		return domain.Ticker{}, f.err
	}
	return domain.Ticker{Symbol: sym, Bid: f.bid, TimestampMS: f.tsMS}, nil
}

type memStore struct {
	mu        sync.Mutex
	tables    map[string][]domain.PriceRecord
	sessErr   error
	insertErr error
	dropErr   error
	open      int
}

func newMemStore() *memStore { return &memStore{tables: map[string][]domain.PriceRecord{}} }

func (m *memStore) Session(context.Context) (Session, error) {
	if m.sessErr != nil {
		return nil, m.sessErr
	}
	m.mu.Lock()
	m.open++
	m.mu.Unlock()
	return &memSession{m: m}, nil
}

func (m *memStore) Ping(context.Context) error { return m.sessErr }

type memSession struct{ m *memStore }

func (s *memSession) TableExists(_ context.Context, table string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, ok := s.m.tables[table]
	return ok, nil
}

func (s *memSession) CreateTable(_ context.Context, table string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tables[table]; ok {
		return errors.New("relation already exists")
	}
	s.m.tables[table] = nil
	return nil
}

func (s *memSession) Insert(_ context.Context, table string, rec domain.PriceRecord) error {
	if s.m.insertErr != nil {
		return s.m.insertErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.tables[table] = append(s.m.tables[table], rec)
	return nil
}

func (s *memSession) SelectAll(_ context.Context, table string) (domain.History, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	h := domain.History{}
	for _, r := range s.m.tables[table] {
		h.Add(r)
	}
	return h, nil
}

func (s *memSession) DropTable(_ context.Context, table string) error {
	if s.m.dropErr != nil {
		return s.m.dropErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.tables, table)
	return nil
}

func (s *memSession) Close() {
	s.m.mu.Lock()
	s.m.open--
	s.m.mu.Unlock()
}

type fakeIdem struct{ seen map[string]bool }

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

func (f *fakeIdem) Release(_ context.Context, k string) error {
	delete(f.seen, k)
	return nil
}

type countingObserver struct {
	outcomes  []string
	persisted []bool
}

func (c *countingObserver) ExchangeRequest(_, outcome string) { c.outcomes = append(c.outcomes, outcome) }
func (c *countingObserver) Persisted(ok bool)                 { c.persisted = append(c.persisted, ok) }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
