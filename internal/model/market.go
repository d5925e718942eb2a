package model

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
)

// PricePoint represents a single daily candlestick bar.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Valid reports whether the bar satisfies the OHLC invariants.
func (p PricePoint) Valid() bool {
	if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 || p.Volume < 0 {
		return false
	}
	if p.Low > p.Open || p.Low > p.Close {
		return false
	}
	return p.Open <= p.High && p.Close <= p.High
}

// TradingDate truncates t to a UTC calendar date.
func TradingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceSeries holds daily bars for one symbol, strictly increasing by date.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries builds a series from raw bars: invalid bars are dropped, dates are
// normalized to calendar days, and for duplicate dates the later bar wins.
func NewPriceSeries(symbol string, bars []PricePoint) PriceSeries {
	points := make([]PricePoint, 0, len(bars))
	for _, b := range bars {
		if !b.Valid() {
			continue
		}
		b.Date = TradingDate(b.Date)
		points = append(points, b)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	return PriceSeries{Symbol: symbol, Points: deduped}
}

func (s PriceSeries) Len() int { return len(s.Points) }

func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// Latest returns the most recent bar, if any.
func (s PriceSeries) Latest() optional.Option[PricePoint] {
	if len(s.Points) == 0 {
		return optional.None[PricePoint]()
	}
	return optional.Some(s.Points[len(s.Points)-1])
}
