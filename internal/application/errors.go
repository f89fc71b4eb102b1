package application

import (
	"errors"

	"cryptoprice-service/internal/domain"
)

var (
	ErrTableNotFound   = errors.New("table does not exist")
	ErrNoBidPrice      = errors.New("bid price not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidCurrency = domain.ErrInvalidCurrency
)

// ExchangeError wraps any failure talking to the upstream exchange.
type ExchangeError struct {
	Exchange string
	Err      error
}

func (e *ExchangeError) Error() string { return e.Err.Error() }
func (e *ExchangeError) Unwrap() error { return e.Err }

// TableError reports an operation on a currency table that does not exist.
type TableError struct {
	Table string
}

func (e *TableError) Error() string        { return "Table " + e.Table + " does not exist." }
func (e *TableError) Is(target error) bool { return target == ErrTableNotFound }

// NoBidError reports a ticker that carried no bid price.
type NoBidError struct {
	Symbol domain.Symbol
}

func (e *NoBidError) Error() string        { return "Could not find bid price for " + e.Symbol.String() }
func (e *NoBidError) Is(target error) bool { return target == ErrNoBidPrice }
