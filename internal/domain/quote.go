package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the second-precision layout used for persisted and returned timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Ticker is the latest market snapshot for a symbol. Bid is nil when the
// exchange reports no bid price.
type Ticker struct {
	Symbol      Symbol
	Bid         *decimal.Decimal
	TimestampMS int64
}

// Time converts the millisecond timestamp to a UTC time truncated to the second.
func (t Ticker) Time() time.Time {
	return time.UnixMilli(t.TimestampMS).UTC().Truncate(time.Second)
}

// PriceRecord is one row of a currency table.
type PriceRecord struct {
	Date  time.Time
	Value decimal.Decimal
}

// History maps formatted timestamps to values. Rows sharing a formatted
// timestamp collapse into one entry; the last one written wins.
type History map[string]decimal.Decimal

// Add stores the record under its formatted timestamp.
func (h History) Add(r PriceRecord) {
	h[FormatTime(r.Date)] = r.Value
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout string as UTC.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}
