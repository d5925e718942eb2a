package model

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(day int, close float64) PricePoint {
	return PricePoint{
		Date:  time.Date(2024, 1, day, 21, 0, 0, 0, time.UTC),
		Open:  close,
		High:  close + 1,
		Low:   close - 1,
		Close: close,
	}
}

func TestPricePoint_Valid(t *testing.T) {
	tests := []struct {
		name string
		p    PricePoint
		want bool
	}{
		{"ok", bar(1, 10), true},
		{"zero close", PricePoint{Open: 1, High: 1, Low: 1, Close: 0}, false},
		{"close above high", PricePoint{Open: 1, High: 2, Low: 1, Close: 3}, false},
		{"open below low", PricePoint{Open: 1, High: 3, Low: 2, Close: 2}, false},
		{"negative volume", PricePoint{Open: 1, High: 1, Low: 1, Close: 1, Volume: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valid())
		})
	}
}

func TestNewPriceSeries(t *testing.T) {
	raw := []PricePoint{bar(3, 12), bar(1, 10), bar(2, 11), bar(2, 11.5), {Open: -1}}
	s := NewPriceSeries("AAPL", raw)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{10, 11.5, 12}, []float64{s.Points[0].Close, s.Points[1].Close, s.Points[2].Close})
	for i := 1; i < s.Len(); i++ {
		assert.True(t, s.Points[i-1].Date.Before(s.Points[i].Date))
	}
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	assert.Equal(t, 21, raw[0].Date.Hour(), "input is not modified")

	latest, err := s.Latest().Take()
	require.NoError(t, err)
	assert.Equal(t, 12.0, latest.Close)
}

func TestNewPriceSeries_Empty(t *testing.T) {
	s := NewPriceSeries("X", nil)
	assert.True(t, s.Empty())
	assert.True(t, s.Latest().IsNone())
}

func TestMovingAverageSeries_Latest(t *testing.T) {
	empty := MovingAverageSeries{Window: 3}
	assert.True(t, empty.Latest().IsNone())

	undefined := MovingAverageSeries{Window: 3, Values: []optional.Option[float64]{optional.None[float64](), optional.None[float64]()}}
	assert.True(t, undefined.Latest().IsNone())

	s := MovingAverageSeries{Window: 2, Values: []optional.Option[float64]{
		optional.None[float64](), optional.Some(1.5), optional.Some(2.5),
	}}
	assert.Equal(t, 2.5, s.Latest().Unwrap())
	assert.True(t, s.At(5).IsNone())
	assert.True(t, s.At(-1).IsNone())
}

func TestSymbolHelpers(t *testing.T) {
	assert.Equal(t, "AAPL - Apple Inc.", NewSymbol("AAPL", "Apple Inc.").Label)
	assert.Equal(t, "BTC-USD", NormalizeSymbol("  btc-usd "))
	assert.Equal(t, "AAPL", SymbolFromLabel("AAPL - Apple Inc. - Common Stock"))
	assert.Equal(t, "^GSPC", SymbolFromLabel("^gspc"))
	assert.Equal(t, "", SymbolFromLabel("   "))
}

func TestTrendSignal(t *testing.T) {
	assert.True(t, SignalBullish.Defined())
	assert.True(t, SignalBearish.Defined())
	assert.False(t, SignalUndefined.Defined())
	assert.Equal(t, SignalBearish, TieBreak)
	assert.Equal(t, "Bullish", SignalBullish.String())
}
