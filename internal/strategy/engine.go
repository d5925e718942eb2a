package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"TrendBoard/internal/calculator"
	"TrendBoard/internal/model"
)

// Default crossover windows, in trading sessions.
const (
	DefaultFastWindow = 50
	DefaultSlowWindow = 200
)

// ClassifyTrend maps the latest fast and slow averages to a signal.
// Either value missing gives Undefined; otherwise fast > slow is Bullish and
// everything else, ties included, is Bearish.
func ClassifyTrend(fast, slow optional.Option[float64]) model.TrendSignal {
	if fast.IsNone() || slow.IsNone() {
		return model.SignalUndefined
	}
	f, s := fast.Unwrap(), slow.Unwrap()
	switch {
	case f > s:
		return model.SignalBullish
	case f == s:
		return model.TieBreak
	default:
		return model.SignalBearish
	}
}

// Analyze computes both moving averages over the closes of series and
// summarizes their latest values.
func Analyze(series model.PriceSeries, fastWindow, slowWindow int) (model.TrendSummary, error) {
	report, err := Evaluate(series, fastWindow, slowWindow)
	if err != nil {
		return model.TrendSummary{}, err
	}
	return report.Summary, nil
}

// Evaluate runs the full analysis pass and keeps both overlays for charting.
func Evaluate(series model.PriceSeries, fastWindow, slowWindow int) (*model.TrendReport, error) {
	fast, err := calculator.MovingAverageOfCloses(series.Points, fastWindow)
	if err != nil {
		return nil, fmt.Errorf("fast average: %w", err)
	}
	slow, err := calculator.MovingAverageOfCloses(series.Points, slowWindow)
	if err != nil {
		return nil, fmt.Errorf("slow average: %w", err)
	}

	latestClose := optional.None[float64]()
	if last, err := series.Latest().Take(); err == nil {
		latestClose = optional.Some(last.Close)
	}

	latestFast, latestSlow := fast.Latest(), slow.Latest()
	return &model.TrendReport{
		Series: series,
		Fast:   fast,
		Slow:   slow,
		Summary: model.TrendSummary{
			LatestClose: latestClose,
			LatestFast:  latestFast,
			LatestSlow:  latestSlow,
			Signal:      ClassifyTrend(latestFast, latestSlow),
		},
	}, nil
}
