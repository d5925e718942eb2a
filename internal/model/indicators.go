package model

import "github.com/moznion/go-optional"

// MovingAverageSeries is aligned index-for-index with its source series.
// Entries before the first full window are None.
type MovingAverageSeries struct {
	Window int
	Values []optional.Option[float64]
}

func (m MovingAverageSeries) Len() int { return len(m.Values) }

// At returns entry i, or None when i is out of range or undefined.
func (m MovingAverageSeries) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(m.Values) {
		return optional.None[float64]()
	}
	return m.Values[i]
}

// Latest returns the latest defined value.
func (m MovingAverageSeries) Latest() optional.Option[float64] {
	for i := len(m.Values) - 1; i >= 0; i-- {
		if m.Values[i].IsSome() {
			return m.Values[i]
		}
	}
	return optional.None[float64]()
}

// TrendSummary is the scalar output of one analysis pass.
type TrendSummary struct {
	LatestClose optional.Option[float64]
	LatestFast  optional.Option[float64]
	LatestSlow  optional.Option[float64]
	Signal      TrendSignal
}

// TrendReport carries everything a render needs: the source series, both
// overlays and the summary.
type TrendReport struct {
	Series  PriceSeries
	Fast    MovingAverageSeries
	Slow    MovingAverageSeries
	Summary TrendSummary
}
