package model

// TrendSignal is the categorical outcome of the moving-average crossover check.
type TrendSignal string

const (
	SignalBullish   TrendSignal = "Bullish"
	SignalBearish   TrendSignal = "Bearish"
	SignalUndefined TrendSignal = "Undefined"
)

// TieBreak is the signal reported when both averages are exactly equal.
// A tie does not count as fast-above-slow, so it lands on Bearish.
const TieBreak = SignalBearish

func (s TrendSignal) String() string { return string(s) }

// Defined reports whether the signal carries a direction.
func (s TrendSignal) Defined() bool {
	return s == SignalBullish || s == SignalBearish
}
