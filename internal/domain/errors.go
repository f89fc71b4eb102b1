package domain

import "errors"

var (
	ErrInvalidCurrency = errors.New("invalid currency")
)
