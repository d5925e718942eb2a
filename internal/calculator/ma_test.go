package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendBoard/internal/model"
)

func TestComputeMovingAverage_Alignment(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}
	for _, w := range []int{1, 2, 3, 7, 10} {
		ma, err := ComputeMovingAverage(values, w)
		require.NoError(t, err)
		require.Equal(t, len(values), ma.Len(), "window %d", w)
		assert.Equal(t, w, ma.Window)

		for i := 0; i < w-1 && i < len(values); i++ {
			assert.True(t, ma.At(i).IsNone(), "window %d index %d should be undefined", w, i)
		}
		if w <= len(values) {
			sum := 0.0
			for _, v := range values[:w] {
				sum += v
			}
			first, err := ma.At(w - 1).Take()
			require.NoError(t, err)
			assert.InDelta(t, sum/float64(w), first, 1e-12)
		}
	}
}

func TestComputeMovingAverage_Values(t *testing.T) {
	ma, err := ComputeMovingAverage([]float64{2, 4, 6, 8}, 2)
	require.NoError(t, err)

	expected := []float64{3, 5, 7}
	for i, want := range expected {
		got, err := ma.At(i + 1).Take()
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
	}
}

func TestComputeMovingAverage_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -1, -200} {
		_, err := ComputeMovingAverage([]float64{1, 2, 3}, w)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidArgument))
	}
}

func TestComputeMovingAverage_EmptyInput(t *testing.T) {
	ma, err := ComputeMovingAverage(nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, ma.Len())
	assert.True(t, ma.Latest().IsNone())
}

func TestComputeMovingAverage_ShorterThanWindow(t *testing.T) {
	ma, err := ComputeMovingAverage([]float64{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, ma.Len())
	for i := 0; i < 3; i++ {
		assert.True(t, ma.At(i).IsNone())
	}
	assert.True(t, ma.Latest().IsNone())
}

func TestComputeMovingAverage_PureAndIdempotent(t *testing.T) {
	values := []float64{5, 3, 8, 1, 9, 2}
	snapshot := append([]float64(nil), values...)

	a, err := ComputeMovingAverage(values, 3)
	require.NoError(t, err)
	b, err := ComputeMovingAverage(values, 3)
	require.NoError(t, err)

	assert.Equal(t, snapshot, values, "input must not be mutated")
	assert.Equal(t, a, b)
}

func TestComputeMovingAverage_OutOfRangeAt(t *testing.T) {
	ma, err := ComputeMovingAverage([]float64{1, 2}, 1)
	require.NoError(t, err)
	assert.True(t, ma.At(-1).IsNone())
	assert.True(t, ma.At(2).IsNone())
}

func TestMovingAverageOfCloses(t *testing.T) {
	bars := []model.PricePoint{
		{Open: 1, High: 2, Low: 1, Close: 1},
		{Open: 2, High: 3, Low: 2, Close: 3},
	}
	ma, err := MovingAverageOfCloses(bars, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ma.Latest().Unwrap(), 1e-12)
}
