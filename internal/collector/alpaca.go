package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"TrendBoard/internal/model"
)

// AlpacaFetcher implements HistoryFetcher with Alpaca market data daily bars.
type AlpacaFetcher struct {
	client *marketdata.Client
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher from API credentials.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL string) (*AlpacaFetcher, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("alpaca api key and secret are required")
	}
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
	return &AlpacaFetcher{client: client, now: time.Now}, nil
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchDailyBars fetches daily bars. The Alpaca client does not take a context,
// so cancellation is only checked before the call.
func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, lookbackYears int) ([]model.PricePoint, error) {
	if lookbackYears <= 0 {
		return nil, fmt.Errorf("lookback must be positive, got %d: %w", lookbackYears, model.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now()
	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      end.AddDate(-lookbackYears, 0, 0),
		End:        end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	return pointsFromAlpacaBars(bars), nil
}

func pointsFromAlpacaBars(bars []marketdata.Bar) []model.PricePoint {
	points := make([]model.PricePoint, len(bars))
	for i, bar := range bars {
		points[i] = model.PricePoint{
			Date:   bar.Timestamp.In(newYork()),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		}
	}
	return points
}
