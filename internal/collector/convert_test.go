package collector

import (
	"context"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendBoard/internal/model"
)

func TestPointsFromAggs(t *testing.T) {
	// 2024-06-03 00:00 US/Eastern
	ts := time.Date(2024, 6, 3, 4, 0, 0, 0, time.UTC)
	points := pointsFromAggs([]models.Agg{{
		Open: 192.9, High: 194.99, Low: 192.52, Close: 194.03, Volume: 50080500,
		Timestamp: models.Millis(ts),
	}})

	require.Len(t, points, 1)
	assert.Equal(t, 194.03, points[0].Close)
	assert.Equal(t, int64(50080500), points[0].Volume)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), model.TradingDate(points[0].Date))
}

func TestPointsFromAlpacaBars(t *testing.T) {
	ts := time.Date(2024, 6, 3, 4, 0, 0, 0, time.UTC)
	points := pointsFromAlpacaBars([]marketdata.Bar{{
		Timestamp: ts, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1200,
	}})

	require.Len(t, points, 1)
	assert.Equal(t, 10.5, points[0].Close)
	assert.Equal(t, int64(1200), points[0].Volume)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), model.TradingDate(points[0].Date))
}

func TestVendorFetchers_RequireCredentials(t *testing.T) {
	_, err := NewPolygonFetcher("")
	assert.Error(t, err)

	_, err = NewAlpacaFetcher("key", "", "")
	assert.Error(t, err)
}

func TestVendorFetchers_InvalidLookback(t *testing.T) {
	p, err := NewPolygonFetcher("key")
	require.NoError(t, err)
	_, err = p.FetchDailyBars(context.Background(), "AAPL", 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	a, err := NewAlpacaFetcher("key", "secret", "")
	require.NoError(t, err)
	_, err = a.FetchDailyBars(context.Background(), "AAPL", -1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
