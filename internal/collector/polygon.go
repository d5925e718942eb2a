package collector

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"TrendBoard/internal/model"
)

// PolygonFetcher implements HistoryFetcher with Polygon daily aggregates.
type PolygonFetcher struct {
	client *polygon.Client
	now    func() time.Time
}

// NewPolygonFetcher creates a fetcher; apiKey is required.
func NewPolygonFetcher(apiKey string) (*PolygonFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon api key is required")
	}
	return &PolygonFetcher{client: polygon.New(apiKey), now: time.Now}, nil
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, symbol string, lookbackYears int) ([]model.PricePoint, error) {
	if lookbackYears <= 0 {
		return nil, fmt.Errorf("lookback must be positive, got %d: %w", lookbackYears, model.ErrInvalidArgument)
	}
	end := f.now()
	start := end.AddDate(-lookbackYears, 0, 0)

	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithAdjusted(true).WithLimit(50000)

	var aggs []models.Agg
	iter := f.client.ListAggs(ctx, params)
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggregates %s: %w", symbol, err)
	}
	return pointsFromAggs(aggs), nil
}

func pointsFromAggs(aggs []models.Agg) []model.PricePoint {
	points := make([]model.PricePoint, len(aggs))
	for i, agg := range aggs {
		points[i] = model.PricePoint{
			// Polygon stamps daily bars at US/Eastern midnight
			Date:   time.Time(agg.Timestamp).In(newYork()),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: int64(agg.Volume),
		}
	}
	return points
}

func newYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}
