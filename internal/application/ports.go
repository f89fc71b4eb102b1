package application

import (
	"context"

	"cryptoprice-service/internal/domain"
)

// Exchange fetches live market data.
type Exchange interface {
	Name() string
	Ticker(ctx context.Context, symbol domain.Symbol) (domain.Ticker, error)
}

// TableManager creates and inspects per-currency tables.
type TableManager interface {
	TableExists(ctx context.Context, table string) (bool, error)
	// CreateTable is not idempotent; callers check TableExists first.
	CreateTable(ctx context.Context, table string) error
}

// RecordStore reads and writes rows of a currency table.
type RecordStore interface {
	Insert(ctx context.Context, table string, rec domain.PriceRecord) error
	SelectAll(ctx context.Context, table string) (domain.History, error)
	DropTable(ctx context.Context, table string) error
}

// Session is a single acquired store connection. Close releases it.
type Session interface {
	TableManager
	RecordStore
	Close()
}

// Store hands out sessions, one per operation.
type Store interface {
	Session(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
}

// IdempotencyStore handles short-lived request deduplication.
type IdempotencyStore interface {
	// TryReserve returns true if key was absent and is now reserved.
	// Returns false if the key already exists (duplicate).
	TryReserve(ctx context.Context, key string) (bool, error)
	// Release frees a reserved key after the guarded operation failed.
	Release(ctx context.Context, key string) error
}

// NoopIdempotency always succeeds; useful for tests/dev when Redis is disabled.
type NoopIdempotency struct{}

func (NoopIdempotency) TryReserve(context.Context, string) (bool, error) { return true, nil }
func (NoopIdempotency) Release(context.Context, string) error            { return nil }

// Observer receives outcome notifications; metrics implement it.
type Observer interface {
	ExchangeRequest(exchange, outcome string)
	Persisted(ok bool)
}

type noopObserver struct{}

func (noopObserver) ExchangeRequest(string, string) {}
func (noopObserver) Persisted(bool)                 {}

// Worker runs until ctx is cancelled.
type Worker interface {
	Start(ctx context.Context)
}
