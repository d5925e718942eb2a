package dashboard

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"TrendBoard/internal/model"
)

const notAvailable = "n/a"

// FormatPrice renders a price as dollars with two decimals, or "n/a" when absent.
// Rounding applies to the exact binary value, so 2.675 shows as $2.67.
func FormatPrice(v optional.Option[float64]) string {
	if v.IsNone() {
		return notAvailable
	}
	return "$" + decimal.NewFromFloatWithExponent(v.Unwrap(), -2).StringFixed(2)
}

// FormatBadge renders the trend badge for the given windows.
func FormatBadge(signal model.TrendSignal, fast, slow int) string {
	switch signal {
	case model.SignalBullish:
		return fmt.Sprintf("Trend: Bullish (%d > %d)", fast, slow)
	case model.SignalBearish:
		return fmt.Sprintf("Trend: Bearish (%d < %d)", fast, slow)
	default:
		return fmt.Sprintf("Trend: n/a (needs %d sessions)", slow)
	}
}

func smaLabel(window int) string {
	return fmt.Sprintf("%d-Day SMA", window)
}

// chartValues converts an average series to a JSON-friendly slice with nil
// where the average is undefined.
func chartValues(s model.MovingAverageSeries) []*float64 {
	out := make([]*float64, s.Len())
	for i := range out {
		if v := s.At(i); v.IsSome() {
			f := v.Unwrap()
			out[i] = &f
		}
	}
	return out
}
