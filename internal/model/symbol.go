package model

import (
	"fmt"
	"strings"
)

// Symbol is one entry of the symbol directory.
type Symbol struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

// NewSymbol builds an entry labelled "{Symbol} - {Security Name}".
func NewSymbol(symbol, name string) Symbol {
	return Symbol{Symbol: symbol, Label: fmt.Sprintf("%s - %s", symbol, name)}
}

// Directory is the result of a directory lookup. When the feed could not be
// used, Fallback is set and Warning explains why; the entries are still usable.
type Directory struct {
	Entries  []Symbol
	Fallback bool
	Warning  error
}

// NormalizeSymbol trims whitespace and upper-cases free-form input.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SymbolFromLabel extracts the ticker from a directory label. Plain tickers
// pass through normalized.
func SymbolFromLabel(label string) string {
	if i := strings.Index(label, " - "); i >= 0 {
		label = label[:i]
	}
	return NormalizeSymbol(label)
}
