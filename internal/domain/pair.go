package domain

import (
	"regexp"
	"strings"
)

// DefaultQuote is the quote currency every tracked asset is priced against.
const DefaultQuote = "USDT"

// Symbol is a trading pair in BASE/QUOTE form, e.g. BTC/USDT.
type Symbol string

var currencyRe = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)

// ValidateCurrency reports whether a path value can be turned into a symbol
// and, through it, into a table identifier.
func ValidateCurrency(c string) bool {
	return currencyRe.MatchString(c)
}

// NewSymbol uppercases the currency and pairs it with quote.
func NewSymbol(currency, quote string) Symbol {
	if quote == "" {
		quote = DefaultQuote
	}
	return Symbol(strings.ToUpper(currency) + "/" + strings.ToUpper(quote))
}

// Split returns the base and quote parts of the symbol.
func (s Symbol) Split() (base, quote string, ok bool) {
	base, quote, ok = strings.Cut(string(s), "/")
	if !ok || base == "" || quote == "" {
		return "", "", false
	}
	return base, quote, true
}

// TableName derives the per-currency table: "/" becomes "_" and everything is lowercased.
func (s Symbol) TableName() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "/", "_"))
}

func (s Symbol) String() string { return string(s) }
