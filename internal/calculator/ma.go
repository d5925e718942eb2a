package calculator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"gonum.org/v1/gonum/stat"

	"TrendBoard/internal/model"
)

// ComputeMovingAverage computes the simple moving average of values over window.
// The result has the same length as values; entries before index window-1 are None.
// values is never modified.
func ComputeMovingAverage(values []float64, window int) (model.MovingAverageSeries, error) {
	if window <= 0 {
		return model.MovingAverageSeries{}, fmt.Errorf("window must be positive, got %d: %w", window, model.ErrInvalidArgument)
	}
	out := make([]optional.Option[float64], len(values))
	for i := range values {
		if i < window-1 {
			out[i] = optional.None[float64]()
			continue
		}
		out[i] = optional.Some(stat.Mean(values[i-window+1:i+1], nil))
	}
	return model.MovingAverageSeries{Window: window, Values: out}, nil
}

// MovingAverageOfCloses computes the moving average over the closing prices of bars.
func MovingAverageOfCloses(bars []model.PricePoint, window int) (model.MovingAverageSeries, error) {
	return ComputeMovingAverage(extractCloses(bars), window)
}

func extractCloses(bars []model.PricePoint) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
